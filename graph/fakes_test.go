package graph

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/store"
)

// fakeUsers is a minimal in-memory UserStore for schema tests.
type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUsers) add(user *models.User) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user.ID
}

func (f *fakeUsers) Insert(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperr.Conflict("User with this email already exists")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	clone := *user
	clone.Password = ""
	return &clone, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeUsers) List(ctx context.Context, limit, offset int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		clone := *user
		clone.Password = ""
		out = append(out, clone)
	}
	return out, nil
}

func (f *fakeUsers) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return nil
}

// fakeCategories is a minimal in-memory CategoryStore for schema tests.
type fakeCategories struct {
	mu         sync.Mutex
	categories map[primitive.ObjectID]*models.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{categories: make(map[primitive.ObjectID]*models.Category)}
}

func (f *fakeCategories) Insert(ctx context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	category.ID = primitive.NewObjectID()
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategories) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	category, ok := f.categories[id]
	if !ok {
		return nil, apperr.NotFound("Category not found")
	}
	clone := *category
	return &clone, nil
}

func (f *fakeCategories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, category := range f.categories {
		if category.Slug == slug {
			clone := *category
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Category not found")
}

func (f *fakeCategories) SlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, category := range f.categories {
		if category.Slug == slug && id != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) List(ctx context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Category, 0, len(f.categories))
	for _, category := range f.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (f *fakeCategories) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeCategories) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.categories, id)
	return nil
}

// fakeProducts satisfies ProductStore; schema tests only list and look up.
type fakeProducts struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{products: make(map[primitive.ObjectID]*models.Product)}
}

func (f *fakeProducts) add(product *models.Product) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	f.products[product.ID] = product
	return product.ID
}

func (f *fakeProducts) Insert(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = primitive.NewObjectID()
	f.products[product.ID] = product
	return nil
}

func (f *fakeProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	clone := *product
	return &clone, nil
}

func (f *fakeProducts) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if product, ok := f.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (f *fakeProducts) List(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.products))
	for _, product := range f.products {
		if !filter.CategoryID.IsZero() && product.CategoryID != filter.CategoryID {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

func (f *fakeProducts) Related(ctx context.Context, categoryID, exclude primitive.ObjectID, limit int64) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProducts) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product, ok := f.products[id]; ok {
		product.Stock -= quantity
	}
	return nil
}

func (f *fakeProducts) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, reviewCount int) error {
	return nil
}

func (f *fakeProducts) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (f *fakeProducts) IDsByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return nil, nil
}
