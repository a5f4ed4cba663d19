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

// OrderFilter narrows order listings. ProductIDs matches orders containing
// any of the given products (vendor scoping).
type OrderFilter struct {
	CustomerID primitive.ObjectID
	ProductIDs []primitive.ObjectID
	Status     models.OrderStatus
	Limit      int64
	Offset     int64
}

// OrderStore provides access to the orders collection.
type OrderStore struct {
	collection *mongo.Collection
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(database *mongo.Database) *OrderStore {
	return &OrderStore{collection: database.Collection("orders")}
}

// Insert persists a new order.
func (s *OrderStore) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		if order.Items[i].ID.IsZero() {
			order.Items[i].ID = primitive.NewObjectID()
		}
	}
	result, err := s.collection.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Order number already exists")
		}
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var order models.Order
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders matching the filter, newest first.
func (s *OrderStore) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := bson.M{}
	if !filter.CustomerID.IsZero() {
		query["customer"] = filter.CustomerID
	}
	if filter.ProductIDs != nil {
		query["items.product"] = bson.M{"$in": filter.ProductIDs}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
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

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the order status and returns the updated document.
func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var order models.Order
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderNumberExists reports whether the order number is already taken.
func (s *OrderStore) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, bson.M{"orderNumber": orderNumber})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
