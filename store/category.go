package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
)

// CategoryStore provides access to the categories collection.
type CategoryStore struct {
	collection *mongo.Collection
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(database *mongo.Database) *CategoryStore {
	return &CategoryStore{collection: database.Collection("categories")}
}

// Insert persists a new category, enforcing slug uniqueness.
func (s *CategoryStore) Insert(ctx context.Context, category *models.Category) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := s.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Category with this slug already exists")
		}
		return err
	}
	category.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var category models.Category
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Category not found")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var category models.Category
	err := s.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Category not found")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// SlugTaken reports whether another category (excluding the given id) owns
// the slug already.
func (s *CategoryStore) SlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{"slug": slug}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update applies the given field set and returns the updated document.
func (s *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var category models.Category
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Category not found")
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("Category with this slug already exists")
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Category not found")
	}
	return nil
}
