package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/pubsub"
	"eco-swift-backend/store"
	"eco-swift-backend/utils"
)

// OrderItemInput is one requested order line. The price is caller-supplied
// and trusted as the unit price at order time.
type OrderItemInput struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Price     float64 `json:"price" validate:"gte=0"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

// CreateOrderInput is the validated createOrder argument.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress AddressInput     `json:"shippingAddress" validate:"required"`
}

// OrdersQuery narrows the orders listing.
type OrdersQuery struct {
	VendorID   string
	CustomerID string
	Status     models.OrderStatus
	Limit      int64
	Offset     int64
}

// OrderService validates stock, computes totals, persists orders and fans
// out the resulting events.
type OrderService struct {
	orders   OrderStore
	products ProductStore
	users    UserStore
	relay    Publisher
	email    EmailSender
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService. email may be nil to disable
// confirmation mail.
func NewOrderService(orders OrderStore, products ProductStore, users UserStore, relay Publisher, email EmailSender, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:   orders,
		products: products,
		users:    users,
		relay:    relay,
		email:    email,
		logger:   logger,
	}
}

// CreateOrder validates stock for every item, persists the order as PENDING
// with a freshly assigned order number, decrements each product's stock and
// publishes the order to the global, per-vendor and per-customer topics.
//
// The stock decrement is a point update after the insert, not part of a
// multi-document transaction; a failure between the two steps leaves the
// order persisted with unadjusted stock.
func (s *OrderService) CreateOrder(ctx context.Context, claims *utils.Claims, input CreateOrderInput) (*models.Order, error) {
	customerID, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	productIDs := make([]primitive.ObjectID, 0, len(input.Items))
	for _, item := range input.Items {
		id, err := parseID(item.ProductID, "product")
		if err != nil {
			return nil, err
		}
		productIDs = append(productIDs, id)
	}

	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	// The $in lookup returns each product once, so a duplicated product id
	// in the items makes the counts diverge and the order is rejected before
	// any stock check could be run against the same units twice.
	if len(products) != len(productIDs) {
		return nil, apperr.NotFound("One or more products not found")
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Every item must clear its stock check before any stock is touched.
	items := make([]models.OrderItem, 0, len(input.Items))
	total := 0.0
	for _, item := range input.Items {
		id, _ := primitive.ObjectIDFromHex(item.ProductID)
		product, ok := byID[id]
		if !ok {
			return nil, apperr.NotFoundf("Product %s not found", item.ProductID)
		}
		if product.Stock < item.Quantity {
			return nil, apperr.Validationf("Insufficient stock for %s. Available: %d, Requested: %d",
				product.Name, product.Stock, item.Quantity)
		}
		items = append(items, models.OrderItem{
			ProductID: id,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Size:      item.Size,
			Color:     item.Color,
		})
		total += item.Price * float64(item.Quantity)
	}

	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber: orderNumber,
		CustomerID:  customerID,
		Items:       items,
		Total:       total,
		Status:      models.OrderPending,
		ShippingAddress: models.Address{
			Street:  input.ShippingAddress.Street,
			City:    input.ShippingAddress.City,
			State:   input.ShippingAddress.State,
			ZipCode: input.ShippingAddress.ZipCode,
			Country: input.ShippingAddress.Country,
		},
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("stock decrement failed after order insert",
				zap.String("orderNumber", order.OrderNumber),
				zap.String("productId", item.ProductID.Hex()),
				zap.Error(err))
			return nil, err
		}
	}

	s.publish(pubsub.TopicOrderCreated, order)

	vendorIDs := distinctVendors(order.Items, byID)
	for _, vendorID := range vendorIDs {
		s.publish(pubsub.Scoped(pubsub.TopicOrderCreated, vendorID.Hex()), order)
		s.publish(pubsub.Scoped(pubsub.TopicOrderStatusChanged, vendorID.Hex()), models.OrderStatusUpdate{
			OrderID:     order.ID.Hex(),
			OrderNumber: order.OrderNumber,
			OldStatus:   models.OrderPending,
			NewStatus:   models.OrderPending,
			UpdatedAt:   order.CreatedAt,
		})
	}
	s.publish(pubsub.Scoped(pubsub.TopicOrderCreated, customerID.Hex()), order)

	s.notifyOrder(order, vendorIDs, models.NotifyOrderCreated,
		"New order",
		fmt.Sprintf("Order %s has been placed", order.OrderNumber))

	s.sendConfirmation(ctx, order)

	return order, nil
}

// UpdateOrderStatus moves an order to the given status. Transition legality
// is not enforced; moves out of DELIVERED or CANCELLED are only logged.
// The caller must be the order's customer or the vendor of at least one of
// its products.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, claims *utils.Claims, orderID string, status models.OrderStatus) (*models.Order, error) {
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	if !models.ValidOrderStatus(status) {
		return nil, apperr.Validationf("Invalid order status: %s", status)
	}
	id, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	productIDs := make([]primitive.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	isVendor := false
	for i := range products {
		byID[products[i].ID] = &products[i]
		if products[i].VendorID == caller {
			isVendor = true
		}
	}
	isCustomer := order.CustomerID == caller
	if !isVendor && !isCustomer {
		return nil, apperr.NotAuthorized("Not authorized to update this order")
	}

	oldStatus := order.Status
	if (oldStatus == models.OrderDelivered || oldStatus == models.OrderCancelled) && status != oldStatus {
		s.logger.Warn("order leaving a terminal status",
			zap.String("orderNumber", order.OrderNumber),
			zap.String("oldStatus", string(oldStatus)),
			zap.String("newStatus", string(status)))
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.publish(pubsub.TopicOrderUpdated, updated)

	statusUpdate := models.OrderStatusUpdate{
		OrderID:     updated.ID.Hex(),
		OrderNumber: updated.OrderNumber,
		OldStatus:   oldStatus,
		NewStatus:   status,
		UpdatedAt:   updated.UpdatedAt,
	}
	vendorIDs := distinctVendors(updated.Items, byID)
	for _, vendorID := range vendorIDs {
		s.publish(pubsub.Scoped(pubsub.TopicOrderStatusChanged, vendorID.Hex()), statusUpdate)
	}
	s.publish(pubsub.Scoped(pubsub.TopicOrderStatusChanged, updated.CustomerID.Hex()), statusUpdate)

	s.notifyOrder(updated, vendorIDs, models.NotifyOrderUpdated,
		"Order updated",
		fmt.Sprintf("Order %s is now %s", updated.OrderNumber, status))

	return updated, nil
}

// Orders lists orders, optionally scoped to a vendor's products, a customer
// or a status.
func (s *OrderService) Orders(ctx context.Context, query OrdersQuery) ([]models.Order, error) {
	filter := store.OrderFilter{
		Status: query.Status,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.VendorID != "" {
		vendorID, err := parseID(query.VendorID, "vendor")
		if err != nil {
			return nil, err
		}
		productIDs, err := s.products.IDsByVendor(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		if productIDs == nil {
			productIDs = []primitive.ObjectID{}
		}
		filter.ProductIDs = productIDs
	}
	if query.CustomerID != "" {
		customerID, err := parseID(query.CustomerID, "customer")
		if err != nil {
			return nil, err
		}
		filter.CustomerID = customerID
	}
	return s.orders.List(ctx, filter)
}

// MyOrders lists the caller's own orders.
func (s *OrderService) MyOrders(ctx context.Context, claims *utils.Claims, status models.OrderStatus, limit, offset int64) ([]models.Order, error) {
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	return s.orders.List(ctx, store.OrderFilter{
		CustomerID: caller,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
}

// Order returns a single order by id.
func (s *OrderService) Order(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) publish(topic string, payload interface{}) {
	if err := s.relay.Publish(topic, payload); err != nil {
		s.logger.Error("event publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

// notifyOrder pushes an in-app notification to the customer and to every
// vendor involved in the order.
func (s *OrderService) notifyOrder(order *models.Order, vendorIDs []primitive.ObjectID, kind models.NotificationType, title, message string) {
	recipients := []string{order.CustomerID.Hex()}
	for _, vendorID := range vendorIDs {
		recipients = append(recipients, vendorID.Hex())
	}
	for _, userID := range recipients {
		s.publish(pubsub.Scoped(pubsub.TopicNotificationAdded, userID), models.Notification{
			ID:        primitive.NewObjectID().Hex(),
			UserID:    userID,
			Type:      kind,
			Title:     title,
			Message:   message,
			Link:      fmt.Sprintf("/orders/%s", order.ID.Hex()),
			CreatedAt: time.Now(),
		})
	}
}

// sendConfirmation fires the confirmation email in the background; failures
// are logged and never fail the mutation.
func (s *OrderService) sendConfirmation(ctx context.Context, order *models.Order) {
	if s.email == nil {
		return
	}
	customer, err := s.users.FindByID(ctx, order.CustomerID)
	if err != nil {
		s.logger.Warn("could not load customer for confirmation email",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return
	}
	go func(email, name, number string, total float64) {
		if err := s.email.SendOrderConfirmationEmail(email, name, number, total); err != nil {
			s.logger.Error("failed to send order confirmation email",
				zap.String("email", email), zap.Error(err))
		}
	}(customer.Email, customer.Name, order.OrderNumber, order.Total)
}

// distinctVendors returns the unique vendor ids owning items in the order,
// in first-seen order.
func distinctVendors(items []models.OrderItem, products map[primitive.ObjectID]*models.Product) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var out []primitive.ObjectID
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || seen[product.VendorID] {
			continue
		}
		seen[product.VendorID] = true
		out = append(out, product.VendorID)
	}
	return out
}
