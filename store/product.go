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

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID primitive.ObjectID
	VendorID   primitive.ObjectID
	Featured   *bool
	Limit      int64
	Offset     int64
}

// ProductStore provides access to the products collection.
type ProductStore struct {
	collection *mongo.Collection
}

// NewProductStore creates a new ProductStore.
func NewProductStore(database *mongo.Database) *ProductStore {
	return &ProductStore{collection: database.Collection("products")}
}

// Insert persists a new product, enforcing SKU uniqueness.
func (s *ProductStore) Insert(ctx context.Context, product *models.Product) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	result, err := s.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Product with this SKU already exists")
		}
		return err
	}
	product.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var product models.Product
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns every product whose id is in the given set. Missing ids
// are not an error here; callers compare lengths.
func (s *ProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// List returns products matching the filter, newest first.
func (s *ProductStore) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := bson.M{}
	if !filter.CategoryID.IsZero() {
		query["category"] = filter.CategoryID
	}
	if !filter.VendorID.IsZero() {
		query["vendor"] = filter.VendorID
	}
	if filter.Featured != nil {
		query["isFeatured"] = *filter.Featured
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

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Related returns other products in the same category.
func (s *ProductStore) Related(ctx context.Context, categoryID, exclude primitive.ObjectID, limit int64) ([]models.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{
		"category": categoryID,
		"_id":      bson.M{"$ne": exclude},
	}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update applies the given field set and returns the updated document.
func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	set["updatedAt"] = time.Now()
	var product models.Product
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Product not found")
	}
	return nil
}

// DecrementStock applies a point decrement to the product's stock. It is not
// part of any surrounding transaction.
func (s *ProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stock": -quantity},
	})
	return err
}

// SetRating persists the recomputed review aggregate.
func (s *ProductStore) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, reviewCount int) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"rating": rating, "reviewCount": reviewCount},
	})
	return err
}

// CountByCategory returns the number of products referencing a category.
func (s *ProductStore) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return s.collection.CountDocuments(ctx, bson.M{"category": categoryID})
}

// IDsByVendor returns the ids of every product owned by a vendor.
func (s *ProductStore) IDsByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{"vendor": vendorID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
