package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/store"
	"eco-swift-backend/utils"
)

func claimsFor(id primitive.ObjectID) *utils.Claims {
	return &utils.Claims{UserID: id.Hex()}
}

// publishedEvent is one captured relay publish.
type publishedEvent struct {
	Topic   string
	Payload interface{}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *capturePublisher) Publish(topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Topic: topic, Payload: payload})
	return nil
}

func (p *capturePublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, 0, len(p.events))
	for _, e := range p.events {
		topics = append(topics, e.Topic)
	}
	return topics
}

type captureEmail struct {
	mu    sync.Mutex
	sent  int
	last  string
	total float64
}

func (e *captureEmail) SendOrderConfirmationEmail(toEmail, customerName, orderNumber string, total float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent++
	e.last = orderNumber
	e.total = total
	return nil
}

// memUserStore is an in-memory UserStore.
type memUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *memUserStore) add(user *models.User) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return user.ID
}

func (m *memUserStore) Insert(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperr.Conflict("User with this email already exists")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	// Store a copy so later mutations of the caller's struct (e.g. the
	// service blanking the password for the response) don't alter the
	// persisted document, mirroring the real store's serialization.
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	clone := *user
	clone.Password = ""
	return &clone, nil
}

func (m *memUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memUserStore) List(ctx context.Context, limit, offset int64) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		clone := *user
		clone.Password = ""
		out = append(out, clone)
	}
	return out, nil
}

func (m *memUserStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	if v, ok := set["name"].(string); ok {
		user.Name = v
	}
	if v, ok := set["avatar"].(string); ok {
		user.Avatar = v
	}
	if v, ok := set["phone"].(string); ok {
		user.Phone = v
	}
	if v, ok := set["address"].(models.Address); ok {
		user.Address = &v
	}
	user.UpdatedAt = time.Now()
	clone := *user
	clone.Password = ""
	return &clone, nil
}

func (m *memUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.Password = hash
	return nil
}

// memCategoryStore is an in-memory CategoryStore.
type memCategoryStore struct {
	mu         sync.Mutex
	categories map[primitive.ObjectID]*models.Category
}

func newMemCategoryStore() *memCategoryStore {
	return &memCategoryStore{categories: make(map[primitive.ObjectID]*models.Category)}
}

func (m *memCategoryStore) add(category *models.Category) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	m.categories[category.ID] = category
	return category.ID
}

func (m *memCategoryStore) Insert(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Slug == category.Slug {
			return apperr.Conflict("Category with this slug already exists")
		}
	}
	category.ID = primitive.NewObjectID()
	m.categories[category.ID] = category
	return nil
}

func (m *memCategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok {
		return nil, apperr.NotFound("Category not found")
	}
	clone := *category
	return &clone, nil
}

func (m *memCategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, category := range m.categories {
		if category.Slug == slug {
			clone := *category
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Category not found")
}

func (m *memCategoryStore) SlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, category := range m.categories {
		if category.Slug == slug && id != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, category := range m.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (m *memCategoryStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok {
		return nil, apperr.NotFound("Category not found")
	}
	if v, ok := set["name"].(string); ok {
		category.Name = v
	}
	if v, ok := set["slug"].(string); ok {
		category.Slug = v
	}
	if v, ok := set["description"].(string); ok {
		category.Description = v
	}
	clone := *category
	return &clone, nil
}

func (m *memCategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return apperr.NotFound("Category not found")
	}
	delete(m.categories, id)
	return nil
}

// memProductStore is an in-memory ProductStore.
type memProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: make(map[primitive.ObjectID]*models.Product)}
}

func (m *memProductStore) add(product *models.Product) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = product
	return product.ID
}

func (m *memProductStore) stock(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memProductStore) Insert(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.SKU == product.SKU {
			return apperr.Conflict("Product with this SKU already exists")
		}
	}
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	m.products[product.ID] = product
	return nil
}

func (m *memProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	clone := *product
	return &clone, nil
}

func (m *memProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if product, ok := m.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (m *memProductStore) List(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.products))
	for _, product := range m.products {
		if !filter.CategoryID.IsZero() && product.CategoryID != filter.CategoryID {
			continue
		}
		if !filter.VendorID.IsZero() && product.VendorID != filter.VendorID {
			continue
		}
		if filter.Featured != nil && product.IsFeatured != *filter.Featured {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

func (m *memProductStore) Related(ctx context.Context, categoryID, exclude primitive.ObjectID, limit int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0)
	for _, product := range m.products {
		if product.CategoryID != categoryID || product.ID == exclude {
			continue
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, *product)
	}
	return out, nil
}

func (m *memProductStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	if v, ok := set["name"].(string); ok {
		product.Name = v
	}
	if v, ok := set["price"].(float64); ok {
		product.Price = v
	}
	if v, ok := set["stock"].(int); ok {
		product.Stock = v
	}
	if v, ok := set["isFeatured"].(bool); ok {
		product.IsFeatured = v
	}
	if v, ok := set["category"].(primitive.ObjectID); ok {
		product.CategoryID = v
	}
	product.UpdatedAt = time.Now()
	clone := *product
	return &clone, nil
}

func (m *memProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return apperr.NotFound("Product not found")
	}
	delete(m.products, id)
	return nil
}

func (m *memProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return apperr.NotFound("Product not found")
	}
	product.Stock -= quantity
	return nil
}

func (m *memProductStore) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, reviewCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return apperr.NotFound("Product not found")
	}
	product.Rating = rating
	product.ReviewCount = reviewCount
	return nil
}

func (m *memProductStore) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, product := range m.products {
		if product.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *memProductStore) IDsByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []primitive.ObjectID
	for _, product := range m.products {
		if product.VendorID == vendorID {
			out = append(out, product.ID)
		}
	}
	return out, nil
}

// memOrderStore is an in-memory OrderStore. takenNumbers simulates order
// number collisions.
type memOrderStore struct {
	mu           sync.Mutex
	orders       map[primitive.ObjectID]*models.Order
	takenNumbers map[string]bool
	alwaysTaken  bool
	existsCalls  int
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{
		orders:       make(map[primitive.ObjectID]*models.Order),
		takenNumbers: make(map[string]bool),
	}
}

func (m *memOrderStore) add(order *models.Order) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	m.orders[order.ID] = order
	return order.ID
}

func (m *memOrderStore) Insert(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	for i := range order.Items {
		order.Items[i].ID = primitive.NewObjectID()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.orders[order.ID] = order
	m.takenNumbers[order.OrderNumber] = true
	return nil
}

func (m *memOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order not found")
	}
	clone := *order
	return &clone, nil
}

func (m *memOrderStore) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	productSet := make(map[primitive.ObjectID]bool, len(filter.ProductIDs))
	for _, id := range filter.ProductIDs {
		productSet[id] = true
	}
	out := make([]models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		if !filter.CustomerID.IsZero() && order.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.ProductIDs != nil {
			matched := false
			for _, item := range order.Items {
				if productSet[item.ProductID] {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, *order)
	}
	return out, nil
}

func (m *memOrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order not found")
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	clone := *order
	return &clone, nil
}

func (m *memOrderStore) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	if m.alwaysTaken {
		return true, nil
	}
	return m.takenNumbers[orderNumber], nil
}

// memReviewStore is an in-memory ReviewStore.
type memReviewStore struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (m *memReviewStore) Insert(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.ProductID == review.ProductID &&
			existing.UserID == review.UserID &&
			existing.OrderID == review.OrderID {
			return apperr.Conflict("You have already reviewed this product for this order")
		}
	}
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	m.reviews[review.ID] = review
	return nil
}

func (m *memReviewStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[id]
	if !ok {
		return nil, apperr.NotFound("Review not found")
	}
	clone := *review
	return &clone, nil
}

func (m *memReviewStore) FindByTriple(ctx context.Context, productID, userID, orderID primitive.ObjectID) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, review := range m.reviews {
		if review.ProductID == productID && review.UserID == userID && review.OrderID == orderID {
			clone := *review
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memReviewStore) List(ctx context.Context, filter store.ReviewFilter) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Review, 0, len(m.reviews))
	for _, review := range m.reviews {
		if !filter.ProductID.IsZero() && review.ProductID != filter.ProductID {
			continue
		}
		if !filter.UserID.IsZero() && review.UserID != filter.UserID {
			continue
		}
		out = append(out, *review)
	}
	return out, nil
}

func (m *memReviewStore) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	return m.List(ctx, store.ReviewFilter{ProductID: productID})
}

func (m *memReviewStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[id]
	if !ok {
		return nil, apperr.NotFound("Review not found")
	}
	if v, ok := set["rating"].(int); ok {
		review.Rating = v
	}
	if v, ok := set["comment"].(string); ok {
		review.Comment = v
	}
	review.UpdatedAt = time.Now()
	clone := *review
	return &clone, nil
}

func (m *memReviewStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return apperr.NotFound("Review not found")
	}
	delete(m.reviews, id)
	return nil
}
