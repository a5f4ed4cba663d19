// Package graph maps GraphQL operations onto the services and the event
// relay. The schema is built in code; every argument is decoded into a
// typed input struct before it reaches business logic.
package graph

import (
	"go.uber.org/zap"

	"eco-swift-backend/pubsub"
	"eco-swift-backend/services"
)

// Resolver bundles everything the schema needs: the services behind
// mutations and queries, the stores behind relation fields, and the relay
// behind subscriptions. It is constructed once and injected.
type Resolver struct {
	Users      *services.UserService
	Products   *services.ProductService
	Categories *services.CategoryService
	Orders     *services.OrderService
	Reviews    *services.ReviewService

	UserStore     services.UserStore
	ProductStore  services.ProductStore
	CategoryStore services.CategoryStore
	OrderStore    services.OrderStore
	ReviewStore   services.ReviewStore

	Relay  *pubsub.Relay
	Logger *zap.Logger
}
