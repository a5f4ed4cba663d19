package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/pubsub"
	"eco-swift-backend/store"
	"eco-swift-backend/utils"
)

// ProductColorInput is one color variant.
type ProductColorInput struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// ProductInput is the validated createProduct argument.
type ProductInput struct {
	Name          string              `json:"name" validate:"required"`
	Description   string              `json:"description"`
	Price         float64             `json:"price" validate:"gte=0"`
	OriginalPrice *float64            `json:"originalPrice"`
	Currency      string              `json:"currency" validate:"omitempty,oneof=USD EUR GBP GHS NGN ZAR"`
	Images        []string            `json:"images"`
	CategoryID    string              `json:"categoryId" validate:"required"`
	Stock         int                 `json:"stock" validate:"gte=0"`
	SKU           string              `json:"sku" validate:"required"`
	Sizes         []string            `json:"sizes"`
	Colors        []ProductColorInput `json:"colors" validate:"dive"`
	Badge         string              `json:"badge"`
	Features      []string            `json:"features"`
	IsFeatured    bool                `json:"isFeatured"`
}

// ProductUpdateInput carries the optional updateProduct fields.
type ProductUpdateInput struct {
	Name          *string             `json:"name"`
	Description   *string             `json:"description"`
	Price         *float64            `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *float64            `json:"originalPrice"`
	Images        []string            `json:"images"`
	CategoryID    *string             `json:"categoryId"`
	Stock         *int                `json:"stock" validate:"omitempty,gte=0"`
	Sizes         []string            `json:"sizes"`
	Colors        []ProductColorInput `json:"colors" validate:"dive"`
	Badge         *string             `json:"badge"`
	Features      []string            `json:"features"`
	IsFeatured    *bool               `json:"isFeatured"`
}

// ProductsQuery narrows the products listing.
type ProductsQuery struct {
	CategoryID string
	VendorID   string
	Featured   *bool
	Limit      int64
	Offset     int64
}

// ProductService manages the product catalog on behalf of vendors.
type ProductService struct {
	products   ProductStore
	categories CategoryStore
	users      UserStore
	relay      Publisher
	logger     *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(products ProductStore, categories CategoryStore, users UserStore, relay Publisher, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:   products,
		categories: categories,
		users:      users,
		relay:      relay,
		logger:     logger,
	}
}

// CreateProduct creates a product owned by the calling vendor and announces
// it on the global and vendor product topics.
func (s *ProductService) CreateProduct(ctx context.Context, claims *utils.Claims, input ProductInput) (*models.Product, error) {
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	categoryID, err := parseID(input.CategoryID, "category")
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	colors := make([]models.ProductColor, 0, len(input.Colors))
	for _, c := range input.Colors {
		colors = append(colors, models.ProductColor{Name: c.Name, Value: c.Value})
	}

	product := &models.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Currency:      currency,
		Images:        emptyIfNil(input.Images),
		CategoryID:    categoryID,
		VendorID:      caller,
		Stock:         input.Stock,
		SKU:           input.SKU,
		Sizes:         emptyIfNil(input.Sizes),
		Colors:        colors,
		Badge:         input.Badge,
		Features:      emptyIfNil(input.Features),
		IsFeatured:    input.IsFeatured,
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}

	s.publish(pubsub.TopicProductCreated, product)
	s.publish(pubsub.Scoped(pubsub.TopicProductCreated, caller.Hex()), product)
	return product, nil
}

// UpdateProduct applies a partial update. Only the owning vendor or an
// admin may update a product.
func (s *ProductService) UpdateProduct(ctx context.Context, claims *utils.Claims, productID string, input ProductUpdateInput) (*models.Product, error) {
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, product, caller, "You can only update your own products"); err != nil {
		return nil, err
	}

	set := bson.M{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.OriginalPrice != nil {
		set["originalPrice"] = *input.OriginalPrice
	}
	if input.Images != nil {
		set["images"] = input.Images
	}
	if input.CategoryID != nil {
		categoryID, err := parseID(*input.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			return nil, err
		}
		set["category"] = categoryID
	}
	if input.Stock != nil {
		set["stock"] = *input.Stock
	}
	if input.Sizes != nil {
		set["sizes"] = input.Sizes
	}
	if input.Colors != nil {
		colors := make([]models.ProductColor, 0, len(input.Colors))
		for _, c := range input.Colors {
			colors = append(colors, models.ProductColor{Name: c.Name, Value: c.Value})
		}
		set["colors"] = colors
	}
	if input.Badge != nil {
		set["badge"] = *input.Badge
	}
	if input.Features != nil {
		set["features"] = input.Features
	}
	if input.IsFeatured != nil {
		set["isFeatured"] = *input.IsFeatured
	}

	updated, err := s.products.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}

	s.publish(pubsub.TopicProductUpdated, updated)
	s.publish(pubsub.Scoped(pubsub.TopicProductUpdated, updated.VendorID.Hex()), updated)
	return updated, nil
}

// DeleteProduct removes a product. Only the owning vendor or an admin may
// delete it.
func (s *ProductService) DeleteProduct(ctx context.Context, claims *utils.Claims, productID string) (bool, error) {
	caller, err := callerID(claims)
	if err != nil {
		return false, err
	}
	id, err := parseID(productID, "product")
	if err != nil {
		return false, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.requireOwnerOrAdmin(ctx, product, caller, "You can only delete your own products"); err != nil {
		return false, err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return false, err
	}

	deleted := models.ProductDeleted{
		ID:        product.ID.Hex(),
		Name:      product.Name,
		DeletedAt: time.Now(),
	}
	s.publish(pubsub.TopicProductDeleted, deleted)
	s.publish(pubsub.Scoped(pubsub.TopicProductDeleted, product.VendorID.Hex()), deleted)
	return true, nil
}

// Products lists products matching the query. Public.
func (s *ProductService) Products(ctx context.Context, query ProductsQuery) ([]models.Product, error) {
	filter := store.ProductFilter{
		Featured: query.Featured,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if query.CategoryID != "" {
		id, err := parseID(query.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		filter.CategoryID = id
	}
	if query.VendorID != "" {
		id, err := parseID(query.VendorID, "vendor")
		if err != nil {
			return nil, err
		}
		filter.VendorID = id
	}
	return s.products.List(ctx, filter)
}

// Product returns a single product by id. Public.
func (s *ProductService) Product(ctx context.Context, productID string) (*models.Product, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, id)
}

// RelatedProducts returns other products in the same category. Public.
func (s *ProductService) RelatedProducts(ctx context.Context, productID string, limit int64) ([]models.Product, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 4
	}
	return s.products.Related(ctx, product.CategoryID, product.ID, limit)
}

func (s *ProductService) requireOwnerOrAdmin(ctx context.Context, product *models.Product, caller primitive.ObjectID, denied string) error {
	if product.VendorID == caller {
		return nil
	}
	user, err := s.users.FindByID(ctx, caller)
	if err != nil || user.Role != models.RoleAdmin {
		return apperr.NotAuthorized(denied)
	}
	return nil
}

func (s *ProductService) publish(topic string, payload interface{}) {
	if err := s.relay.Publish(topic, payload); err != nil {
		s.logger.Error("event publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
