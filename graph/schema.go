package graph

import (
	"github.com/graphql-go/graphql"

	"eco-swift-backend/middleware"
	"eco-swift-backend/models"
	"eco-swift-backend/services"
)

// NewSchema builds the executable schema against a resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	b := &schemaBuilder{r: r}
	b.buildTypes()

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:        b.query(),
		Mutation:     b.mutation(),
		Subscription: b.subscription(),
	})
}

func statusArg(p graphql.ResolveParams, name string) models.OrderStatus {
	if v, ok := p.Args[name].(models.OrderStatus); ok {
		return v
	}
	return ""
}

func (b *schemaBuilder) query() *graphql.Object {
	r := b.r
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: b.userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := r.Users.Me(p.Context, middleware.ClaimsFromContext(p.Context))
					if user == nil {
						return nil, err
					}
					return user, err
				},
			},
			"user": &graphql.Field{
				Type: b.userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Users.User(p.Context, stringArg(p, "id"))
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.userType))),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Users.Users(p.Context, intArg(p, "limit", 0), intArg(p, "offset", 0))
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.categoryType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Categories.Categories(p.Context)
				},
			},
			"category": &graphql.Field{
				Type: b.categoryType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Categories.Category(p.Context, stringArg(p, "id"))
				},
			},
			"categoryBySlug": &graphql.Field{
				Type: b.categoryType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Categories.CategoryBySlug(p.Context, stringArg(p, "slug"))
				},
			},
			"product": &graphql.Field{
				Type: b.productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Products.Product(p.Context, stringArg(p, "id"))
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.productType))),
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.ID},
					"vendorId":   &graphql.ArgumentConfig{Type: graphql.ID},
					"featured":   &graphql.ArgumentConfig{Type: graphql.Boolean},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":     &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Products.Products(p.Context, services.ProductsQuery{
						CategoryID: stringArg(p, "categoryId"),
						VendorID:   stringArg(p, "vendorId"),
						Featured:   boolArgPtr(p, "featured"),
						Limit:      intArg(p, "limit", 0),
						Offset:     intArg(p, "offset", 0),
					})
				},
			},
			"relatedProducts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.productType))),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Products.RelatedProducts(p.Context, stringArg(p, "productId"), intArg(p, "limit", 0))
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.orderType))),
				Args: graphql.FieldConfigArgument{
					"vendorId":   &graphql.ArgumentConfig{Type: graphql.ID},
					"customerId": &graphql.ArgumentConfig{Type: graphql.ID},
					"status":     &graphql.ArgumentConfig{Type: b.orderStatusEnum},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":     &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Orders.Orders(p.Context, services.OrdersQuery{
						VendorID:   stringArg(p, "vendorId"),
						CustomerID: stringArg(p, "customerId"),
						Status:     statusArg(p, "status"),
						Limit:      intArg(p, "limit", 0),
						Offset:     intArg(p, "offset", 0),
					})
				},
			},
			"order": &graphql.Field{
				Type: b.orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Orders.Order(p.Context, stringArg(p, "id"))
				},
			},
			"myOrders": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.orderType))),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: b.orderStatusEnum},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Orders.MyOrders(p.Context, middleware.ClaimsFromContext(p.Context),
						statusArg(p, "status"), intArg(p, "limit", 0), intArg(p, "offset", 0))
				},
			},
			"reviews": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.reviewType))),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.ID},
					"userId":    &graphql.ArgumentConfig{Type: graphql.ID},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":    &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Reviews.Reviews(p.Context, services.ReviewsQuery{
						ProductID: stringArg(p, "productId"),
						UserID:    stringArg(p, "userId"),
						Limit:     intArg(p, "limit", 0),
						Offset:    intArg(p, "offset", 0),
					})
				},
			},
			"review": &graphql.Field{
				Type: b.reviewType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Reviews.Review(p.Context, stringArg(p, "id"))
				},
			},
		},
	})
}

func (b *schemaBuilder) mutation() *graphql.Object {
	r := b.r
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(b.authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.registerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.RegisterInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Users.Register(p.Context, input)
				},
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(b.authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.loginInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.LoginInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Users.Login(p.Context, input)
				},
			},
			"logout": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Users.Logout(p.Context, middleware.ClaimsFromContext(p.Context))
				},
			},
			"changePassword": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"oldPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"newPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Users.ChangePassword(p.Context, middleware.ClaimsFromContext(p.Context),
						stringArg(p, "oldPassword"), stringArg(p, "newPassword"))
				},
			},
			"updateUser": &graphql.Field{
				Type: graphql.NewNonNull(b.userType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.updateUserInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.UpdateUserInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Users.UpdateUser(p.Context, middleware.ClaimsFromContext(p.Context), input)
				},
			},
			"createProduct": &graphql.Field{
				Type: graphql.NewNonNull(b.productType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.productInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.ProductInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Products.CreateProduct(p.Context, middleware.ClaimsFromContext(p.Context), input)
				},
			},
			"updateProduct": &graphql.Field{
				Type: graphql.NewNonNull(b.productType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.productUpdateInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.ProductUpdateInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Products.UpdateProduct(p.Context, middleware.ClaimsFromContext(p.Context),
						stringArg(p, "id"), input)
				},
			},
			"deleteProduct": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Products.DeleteProduct(p.Context, middleware.ClaimsFromContext(p.Context), stringArg(p, "id"))
				},
			},
			"createCategory": &graphql.Field{
				Type: graphql.NewNonNull(b.categoryType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.categoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.CategoryInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Categories.CreateCategory(p.Context, middleware.ClaimsFromContext(p.Context), input)
				},
			},
			"updateCategory": &graphql.Field{
				Type: graphql.NewNonNull(b.categoryType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.categoryUpdateInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.CategoryUpdateInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Categories.UpdateCategory(p.Context, middleware.ClaimsFromContext(p.Context),
						stringArg(p, "id"), input)
				},
			},
			"deleteCategory": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Categories.DeleteCategory(p.Context, middleware.ClaimsFromContext(p.Context), stringArg(p, "id"))
				},
			},
			"createOrder": &graphql.Field{
				Type: graphql.NewNonNull(b.orderType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.orderInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.CreateOrderInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Orders.CreateOrder(p.Context, middleware.ClaimsFromContext(p.Context), input)
				},
			},
			"updateOrderStatus": &graphql.Field{
				Type: graphql.NewNonNull(b.orderType),
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.orderStatusEnum)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Orders.UpdateOrderStatus(p.Context, middleware.ClaimsFromContext(p.Context),
						stringArg(p, "orderId"), statusArg(p, "status"))
				},
			},
			"createReview": &graphql.Field{
				Type: graphql.NewNonNull(b.reviewType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.reviewInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input services.CreateReviewInput
					if err := decodeInput(p.Args["input"], &input); err != nil {
						return nil, err
					}
					return r.Reviews.CreateReview(p.Context, middleware.ClaimsFromContext(p.Context), input)
				},
			},
			"updateReview": &graphql.Field{
				Type: graphql.NewNonNull(b.reviewType),
				Args: graphql.FieldConfigArgument{
					"id":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"rating":  &graphql.ArgumentConfig{Type: graphql.Int},
					"comment": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Reviews.UpdateReview(p.Context, middleware.ClaimsFromContext(p.Context),
						stringArg(p, "id"), intArgPtr(p, "rating"), stringArgPtr(p, "comment"))
				},
			},
			"deleteReview": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Reviews.DeleteReview(p.Context, middleware.ClaimsFromContext(p.Context), stringArg(p, "id"))
				},
			},
		},
	})
}
