package services

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/store"
	"eco-swift-backend/utils"
)

// CreateReviewInput is the validated createReview argument.
type CreateReviewInput struct {
	ProductID string `json:"productId" validate:"required"`
	OrderID   string `json:"orderId" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Comment   string `json:"comment"`
}

// ReviewsQuery narrows the reviews listing.
type ReviewsQuery struct {
	ProductID string
	UserID    string
	Limit     int64
	Offset    int64
}

// ReviewService guards review creation behind the delivered-order rules and
// keeps each product's rating aggregate in step with its reviews.
type ReviewService struct {
	reviews  ReviewStore
	orders   OrderStore
	products ProductStore
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews ReviewStore, orders OrderStore, products ProductStore) *ReviewService {
	return &ReviewService{reviews: reviews, orders: orders, products: products}
}

// CreateReview creates a review for a product the caller bought in a
// delivered order, at most once per (product, user, order) triple, then
// recomputes the product's rating aggregate.
func (s *ReviewService) CreateReview(ctx context.Context, claims *utils.Claims, input CreateReviewInput) (*models.Review, error) {
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperr.Validation("Rating must be between 1 and 5")
	}
	productID, err := parseID(input.ProductID, "product")
	if err != nil {
		return nil, err
	}
	orderID, err := parseID(input.OrderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != caller {
		return nil, apperr.NotAuthorized("You can only review products from your own orders")
	}
	if order.Status != models.OrderDelivered {
		return nil, apperr.Validation("You can only review products from delivered orders")
	}

	productInOrder := false
	for _, item := range order.Items {
		if item.ProductID == productID {
			productInOrder = true
			break
		}
	}
	if !productInOrder {
		return nil, apperr.NotFound("Product not found in this order")
	}

	existing, err := s.reviews.FindByTriple(ctx, productID, caller, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("You have already reviewed this product for this order")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    caller,
		OrderID:   orderID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, productID); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview changes the rating and/or comment of the caller's own review
// and recomputes the product aggregate.
func (s *ReviewService) UpdateReview(ctx context.Context, claims *utils.Claims, reviewID string, rating *int, comment *string) (*models.Review, error) {
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	id, err := parseID(reviewID, "review")
	if err != nil {
		return nil, err
	}

	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != caller {
		return nil, apperr.NotAuthorized("You can only update your own reviews")
	}

	set := bson.M{}
	if rating != nil {
		if *rating < 1 || *rating > 5 {
			return nil, apperr.Validation("Rating must be between 1 and 5")
		}
		set["rating"] = *rating
	}
	if comment != nil {
		set["comment"] = *comment
	}

	updated, err := s.reviews.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeRating(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteReview removes the caller's own review and recomputes the product
// aggregate; deleting the last review resets it to zero.
func (s *ReviewService) DeleteReview(ctx context.Context, claims *utils.Claims, reviewID string) (bool, error) {
	caller, err := callerID(claims)
	if err != nil {
		return false, err
	}
	id, err := parseID(reviewID, "review")
	if err != nil {
		return false, err
	}

	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if review.UserID != caller {
		return false, apperr.NotAuthorized("You can only delete your own reviews")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return false, err
	}
	if err := s.recomputeRating(ctx, review.ProductID); err != nil {
		return false, err
	}
	return true, nil
}

// Reviews lists reviews, optionally filtered by product and user.
func (s *ReviewService) Reviews(ctx context.Context, query ReviewsQuery) ([]models.Review, error) {
	filter := store.ReviewFilter{Limit: query.Limit, Offset: query.Offset}
	if query.ProductID != "" {
		id, err := parseID(query.ProductID, "product")
		if err != nil {
			return nil, err
		}
		filter.ProductID = id
	}
	if query.UserID != "" {
		id, err := parseID(query.UserID, "user")
		if err != nil {
			return nil, err
		}
		filter.UserID = id
	}
	return s.reviews.List(ctx, filter)
}

// Review returns a single review by id.
func (s *ReviewService) Review(ctx context.Context, reviewID string) (*models.Review, error) {
	id, err := parseID(reviewID, "review")
	if err != nil {
		return nil, err
	}
	return s.reviews.FindByID(ctx, id)
}

// recomputeRating persists round(mean(ratings), 1) and the review count for
// the product, or zero/zero when no reviews remain.
func (s *ReviewService) recomputeRating(ctx context.Context, productID primitive.ObjectID) error {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return s.products.SetRating(ctx, productID, 0, 0)
	}
	total := 0
	for _, review := range reviews {
		total += review.Rating
	}
	average := float64(total) / float64(len(reviews))
	rounded := math.Round(average*10) / 10
	return s.products.SetRating(ctx, productID, rounded, len(reviews))
}
