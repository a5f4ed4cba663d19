package graph

import (
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"eco-swift-backend/apperr"
	"eco-swift-backend/middleware"
	"eco-swift-backend/models"
	"eco-swift-backend/pubsub"
)

// stream subscribes to the given topics and forwards each event, decoded
// into a fresh value from newPayload, onto the channel the executor drains.
// Events that fail to decode are dropped with a log line.
func (b *schemaBuilder) stream(p graphql.ResolveParams, newPayload func() interface{}, topics ...string) (interface{}, error) {
	events, err := b.r.Relay.Subscribe(p.Context, topics...)
	if err != nil {
		return nil, err
	}
	out := make(chan interface{})
	go func() {
		defer close(out)
		for event := range events {
			payload := newPayload()
			if err := event.Decode(payload); err != nil {
				b.r.Logger.Warn("dropping undecodable event",
					zap.String("topic", event.Topic), zap.Error(err))
				continue
			}
			select {
			case out <- payload:
			case <-p.Context.Done():
				return
			}
		}
	}()
	return out, nil
}

// sourceResolve hands the streamed payload straight through to the
// selection set.
func sourceResolve(p graphql.ResolveParams) (interface{}, error) {
	return p.Source, nil
}

func newOrder() interface{}             { return &models.Order{} }
func newOrderStatusUpdate() interface{} { return &models.OrderStatusUpdate{} }
func newProduct() interface{}           { return &models.Product{} }
func newProductDeleted() interface{}    { return &models.ProductDeleted{} }
func newNotification() interface{}      { return &models.Notification{} }

func (b *schemaBuilder) subscription() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"orderCreated": &graphql.Field{
				Type: graphql.NewNonNull(b.orderType),
				Args: graphql.FieldConfigArgument{
					"vendorId":   &graphql.ArgumentConfig{Type: graphql.ID},
					"customerId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: sourceResolve,
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					topics := []string{pubsub.TopicOrderCreated}
					if vendorID := stringArg(p, "vendorId"); vendorID != "" {
						topics = append(topics, pubsub.Scoped(pubsub.TopicOrderCreated, vendorID))
					}
					if claims := middleware.ClaimsFromContext(p.Context); claims != nil {
						topics = append(topics, pubsub.Scoped(pubsub.TopicOrderCreated, claims.UserID))
					}
					if customerID := stringArg(p, "customerId"); customerID != "" {
						topics = append(topics, pubsub.Scoped(pubsub.TopicOrderCreated, customerID))
					}
					return b.stream(p, newOrder, topics...)
				},
			},
			"orderUpdated": &graphql.Field{
				Type: graphql.NewNonNull(b.orderType),
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: sourceResolve,
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					topic := pubsub.TopicOrderUpdated
					if orderID := stringArg(p, "orderId"); orderID != "" {
						topic = pubsub.Scoped(pubsub.TopicOrderUpdated, orderID)
					}
					return b.stream(p, newOrder, topic)
				},
			},
			"orderStatusChanged": &graphql.Field{
				Type: graphql.NewNonNull(b.orderStatusUpdateType),
				Args: graphql.FieldConfigArgument{
					"vendorId":   &graphql.ArgumentConfig{Type: graphql.ID},
					"customerId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: sourceResolve,
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					var topics []string
					if vendorID := stringArg(p, "vendorId"); vendorID != "" {
						topics = append(topics, pubsub.Scoped(pubsub.TopicOrderStatusChanged, vendorID))
					}
					if customerID := stringArg(p, "customerId"); customerID != "" {
						topics = append(topics, pubsub.Scoped(pubsub.TopicOrderStatusChanged, customerID))
					}
					if claims := middleware.ClaimsFromContext(p.Context); claims != nil {
						topics = append(topics, pubsub.Scoped(pubsub.TopicOrderStatusChanged, claims.UserID))
					}
					if len(topics) == 0 {
						return nil, apperr.Validation("Vendor ID or Customer ID required")
					}
					return b.stream(p, newOrderStatusUpdate, topics...)
				},
			},
			"productCreated": &graphql.Field{
				Type: graphql.NewNonNull(b.productType),
				Args: graphql.FieldConfigArgument{
					"vendorId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: sourceResolve,
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					return b.stream(p, newProduct, b.productTopics(p, pubsub.TopicProductCreated)...)
				},
			},
			"productUpdated": &graphql.Field{
				Type: graphql.NewNonNull(b.productType),
				Args: graphql.FieldConfigArgument{
					"vendorId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: sourceResolve,
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					return b.stream(p, newProduct, b.productTopics(p, pubsub.TopicProductUpdated)...)
				},
			},
			"productDeleted": &graphql.Field{
				Type: graphql.NewNonNull(b.productDeletedType),
				Args: graphql.FieldConfigArgument{
					"vendorId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: sourceResolve,
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					return b.stream(p, newProductDeleted, b.productTopics(p, pubsub.TopicProductDeleted)...)
				},
			},
			"notificationAdded": &graphql.Field{
				Type: graphql.NewNonNull(b.notificationType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: sourceResolve,
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					targetID := stringArg(p, "userId")
					if targetID == "" {
						if claims := middleware.ClaimsFromContext(p.Context); claims != nil {
							targetID = claims.UserID
						}
					}
					if targetID == "" {
						return nil, apperr.Validation("User ID required")
					}
					return b.stream(p, newNotification, pubsub.Scoped(pubsub.TopicNotificationAdded, targetID))
				},
			},
		},
	})
}

// productTopics picks the channels for the product subscriptions: an
// explicit vendorId narrows to that vendor only, an authenticated caller
// gets their own channel plus the global one, anonymous callers get just
// the global one.
func (b *schemaBuilder) productTopics(p graphql.ResolveParams, base string) []string {
	if vendorID := stringArg(p, "vendorId"); vendorID != "" {
		return []string{pubsub.Scoped(base, vendorID)}
	}
	if claims := middleware.ClaimsFromContext(p.Context); claims != nil {
		return []string{pubsub.Scoped(base, claims.UserID), base}
	}
	return []string{base}
}
