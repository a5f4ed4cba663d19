package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
)

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	ProductID primitive.ObjectID
	UserID    primitive.ObjectID
	Limit     int64
	Offset    int64
}

// ReviewStore provides access to the reviews collection.
type ReviewStore struct {
	collection *mongo.Collection
}

// NewReviewStore creates a new ReviewStore.
func NewReviewStore(database *mongo.Database) *ReviewStore {
	return &ReviewStore{collection: database.Collection("reviews")}
}

// Insert persists a new review, enforcing the one review per
// (product, user, order) constraint.
func (s *ReviewStore) Insert(ctx context.Context, review *models.Review) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	result, err := s.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("You have already reviewed this product for this order")
		}
		return err
	}
	review.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *ReviewStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var review models.Review
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Review not found")
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByTriple returns the review for a (product, user, order) triple, or
// nil when none exists.
func (s *ReviewStore) FindByTriple(ctx context.Context, productID, userID, orderID primitive.ObjectID) (*models.Review, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var review models.Review
	err := s.collection.FindOne(ctx, bson.M{
		"product": productID,
		"user":    userID,
		"order":   orderID,
	}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// List returns reviews matching the filter, newest first.
func (s *ReviewStore) List(ctx context.Context, filter ReviewFilter) ([]models.Review, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := bson.M{}
	if !filter.ProductID.IsZero() {
		query["product"] = filter.ProductID
	}
	if !filter.UserID.IsZero() {
		query["user"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		opts.SetSkip(filter.Offset)
	}

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByProduct returns every review for the product, for aggregate
// recomputation.
func (s *ReviewStore) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	return s.List(ctx, ReviewFilter{ProductID: productID})
}

// Update applies the given field set and returns the updated document.
func (s *ReviewStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	set["updatedAt"] = time.Now()
	var review models.Review
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Review not found")
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Review not found")
	}
	return nil
}
