// Package services holds the business logic behind the GraphQL resolvers.
// Services depend on narrow store interfaces so tests can run against
// in-memory fakes; the concrete implementations live in the store package.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eco-swift-backend/models"
	"eco-swift-backend/store"
)

// Publisher is the event relay surface services need.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// EmailSender sends transactional email. Implementations must be safe to
// call concurrently.
type EmailSender interface {
	SendOrderConfirmationEmail(toEmail, customerName, orderNumber string, total float64) error
}

// UserStore is the users collection surface.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int64) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// CategoryStore is the categories collection surface.
type CategoryStore interface {
	Insert(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductStore is the products collection surface.
type ProductStore interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	List(ctx context.Context, filter store.ProductFilter) ([]models.Product, error)
	Related(ctx context.Context, categoryID, exclude primitive.ObjectID, limit int64) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, reviewCount int) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	IDsByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// OrderStore is the orders collection surface.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
}

// ReviewStore is the reviews collection surface.
type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByTriple(ctx context.Context, productID, userID, orderID primitive.ObjectID) (*models.Review, error)
	List(ctx context.Context, filter store.ReviewFilter) ([]models.Review, error)
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
