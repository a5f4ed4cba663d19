package graph

import (
	"github.com/graphql-go/graphql"

	"eco-swift-backend/models"
	"eco-swift-backend/store"
)

// schemaBuilder wires the object types to the resolver so relation fields
// (order.customer, product.vendor, ...) can load their documents lazily.
type schemaBuilder struct {
	r *Resolver

	userRoleEnum         *graphql.Enum
	orderStatusEnum      *graphql.Enum
	notificationTypeEnum *graphql.Enum

	addressType           *graphql.Object
	userType              *graphql.Object
	authPayloadType       *graphql.Object
	categoryType          *graphql.Object
	productColorType      *graphql.Object
	productType           *graphql.Object
	productDeletedType    *graphql.Object
	orderItemType         *graphql.Object
	orderType             *graphql.Object
	orderStatusUpdateType *graphql.Object
	reviewType            *graphql.Object
	notificationType      *graphql.Object

	addressInput        *graphql.InputObject
	registerInput       *graphql.InputObject
	loginInput          *graphql.InputObject
	updateUserInput     *graphql.InputObject
	productColorInput   *graphql.InputObject
	productInput        *graphql.InputObject
	productUpdateInput  *graphql.InputObject
	categoryInput       *graphql.InputObject
	categoryUpdateInput *graphql.InputObject
	orderItemInput      *graphql.InputObject
	orderInput          *graphql.InputObject
	reviewInput         *graphql.InputObject
}

func userSource(p graphql.ResolveParams) *models.User {
	switch v := p.Source.(type) {
	case *models.User:
		return v
	case models.User:
		return &v
	}
	return nil
}

func categorySource(p graphql.ResolveParams) *models.Category {
	switch v := p.Source.(type) {
	case *models.Category:
		return v
	case models.Category:
		return &v
	}
	return nil
}

func productSource(p graphql.ResolveParams) *models.Product {
	switch v := p.Source.(type) {
	case *models.Product:
		return v
	case models.Product:
		return &v
	}
	return nil
}

func orderSource(p graphql.ResolveParams) *models.Order {
	switch v := p.Source.(type) {
	case *models.Order:
		return v
	case models.Order:
		return &v
	}
	return nil
}

func reviewSource(p graphql.ResolveParams) *models.Review {
	switch v := p.Source.(type) {
	case *models.Review:
		return v
	case models.Review:
		return &v
	}
	return nil
}

func (b *schemaBuilder) buildEnums() {
	b.userRoleEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "UserRole",
		Values: graphql.EnumValueConfigMap{
			"BUYER":  &graphql.EnumValueConfig{Value: models.RoleBuyer},
			"VENDOR": &graphql.EnumValueConfig{Value: models.RoleVendor},
			"ADMIN":  &graphql.EnumValueConfig{Value: models.RoleAdmin},
		},
	})

	b.orderStatusEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "OrderStatus",
		Values: graphql.EnumValueConfigMap{
			"PENDING":    &graphql.EnumValueConfig{Value: models.OrderPending},
			"PROCESSING": &graphql.EnumValueConfig{Value: models.OrderProcessing},
			"SHIPPED":    &graphql.EnumValueConfig{Value: models.OrderShipped},
			"DELIVERED":  &graphql.EnumValueConfig{Value: models.OrderDelivered},
			"CANCELLED":  &graphql.EnumValueConfig{Value: models.OrderCancelled},
		},
	})

	b.notificationTypeEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "NotificationType",
		Values: graphql.EnumValueConfigMap{
			"ORDER_CREATED":     &graphql.EnumValueConfig{Value: models.NotifyOrderCreated},
			"ORDER_UPDATED":     &graphql.EnumValueConfig{Value: models.NotifyOrderUpdated},
			"ORDER_CANCELLED":   &graphql.EnumValueConfig{Value: models.NotifyOrderCancelled},
			"PRODUCT_LOW_STOCK": &graphql.EnumValueConfig{Value: models.NotifyProductLowStock},
			"NEW_MESSAGE":       &graphql.EnumValueConfig{Value: models.NotifyNewMessage},
			"SYSTEM_ALERT":      &graphql.EnumValueConfig{Value: models.NotifySystemAlert},
		},
	})
}

func (b *schemaBuilder) buildTypes() {
	b.buildEnums()

	b.addressType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"street":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"city":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"state":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"zipCode": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"country": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if u := userSource(p); u != nil {
						return u.ID.Hex(), nil
					}
					return nil, nil
				},
			},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role":      &graphql.Field{Type: graphql.NewNonNull(b.userRoleEnum)},
			"avatar":    &graphql.Field{Type: graphql.String},
			"phone":     &graphql.Field{Type: graphql.String},
			"address":   &graphql.Field{Type: b.addressType},
			"createdAt": &graphql.Field{Type: dateScalar},
			"updatedAt": &graphql.Field{Type: dateScalar},
		},
	})

	b.authPayloadType = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(b.userType)},
		},
	})

	b.productColorType = graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductColor",
		Fields: graphql.Fields{
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"value": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.categoryType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c := categorySource(p); c != nil {
						return c.ID.Hex(), nil
					}
					return nil, nil
				},
			},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"slug":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	b.productType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if product := productSource(p); product != nil {
						return product.ID.Hex(), nil
					}
					return nil, nil
				},
			},
			"name":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description":   &graphql.Field{Type: graphql.String},
			"price":         &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"originalPrice": &graphql.Field{Type: graphql.Float},
			"currency":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"images":        &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"stock":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"sku":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"sizes":         &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"colors":        &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.productColorType)))},
			"badge":         &graphql.Field{Type: graphql.String},
			"rating":        &graphql.Field{Type: graphql.Float},
			"reviewCount":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"features":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"isFeatured":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"createdAt":     &graphql.Field{Type: dateScalar},
			"updatedAt":     &graphql.Field{Type: dateScalar},
			"category": &graphql.Field{
				Type: b.categoryType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product := productSource(p)
					if product == nil {
						return nil, nil
					}
					return b.r.CategoryStore.FindByID(p.Context, product.CategoryID)
				},
			},
			"vendor": &graphql.Field{
				Type: b.userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product := productSource(p)
					if product == nil {
						return nil, nil
					}
					return b.r.UserStore.FindByID(p.Context, product.VendorID)
				},
			},
		},
	})

	// Category.products is derived by query, not stored.
	b.categoryType.AddFieldConfig("products", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.productType))),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			category := categorySource(p)
			if category == nil {
				return []models.Product{}, nil
			}
			return b.r.ProductStore.List(p.Context, store.ProductFilter{CategoryID: category.ID})
		},
	})

	b.productDeletedType = graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductDeleted",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"deletedAt": &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
		},
	})

	b.orderItemType = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if item, ok := p.Source.(models.OrderItem); ok {
						return item.ID.Hex(), nil
					}
					return nil, nil
				},
			},
			"quantity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"price":    &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"size":     &graphql.Field{Type: graphql.String},
			"color":    &graphql.Field{Type: graphql.String},
			"product": &graphql.Field{
				Type: b.productType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, ok := p.Source.(models.OrderItem)
					if !ok {
						return nil, nil
					}
					return b.r.ProductStore.FindByID(p.Context, item.ProductID)
				},
			},
		},
	})

	b.orderType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if order := orderSource(p); order != nil {
						return order.ID.Hex(), nil
					}
					return nil, nil
				},
			},
			"orderNumber":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"items":           &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.orderItemType)))},
			"total":           &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"status":          &graphql.Field{Type: graphql.NewNonNull(b.orderStatusEnum)},
			"shippingAddress": &graphql.Field{Type: b.addressType},
			"createdAt":       &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
			"updatedAt":       &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
			"customer": &graphql.Field{
				Type: graphql.NewNonNull(b.userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order := orderSource(p)
					if order == nil {
						return nil, nil
					}
					return b.r.UserStore.FindByID(p.Context, order.CustomerID)
				},
			},
		},
	})

	b.orderStatusUpdateType = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderStatusUpdate",
		Fields: graphql.Fields{
			"orderId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"orderNumber": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"oldStatus":   &graphql.Field{Type: graphql.NewNonNull(b.orderStatusEnum)},
			"newStatus":   &graphql.Field{Type: graphql.NewNonNull(b.orderStatusEnum)},
			"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
		},
	})

	b.reviewType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if review := reviewSource(p); review != nil {
						return review.ID.Hex(), nil
					}
					return nil, nil
				},
			},
			"rating":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"comment":   &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
			"product": &graphql.Field{
				Type: b.productType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					review := reviewSource(p)
					if review == nil {
						return nil, nil
					}
					return b.r.ProductStore.FindByID(p.Context, review.ProductID)
				},
			},
			"user": &graphql.Field{
				Type: b.userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					review := reviewSource(p)
					if review == nil {
						return nil, nil
					}
					return b.r.UserStore.FindByID(p.Context, review.UserID)
				},
			},
			"order": &graphql.Field{
				Type: b.orderType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					review := reviewSource(p)
					if review == nil {
						return nil, nil
					}
					return b.r.OrderStore.FindByID(p.Context, review.OrderID)
				},
			},
		},
	})

	b.notificationType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Notification",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"userId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"type":      &graphql.Field{Type: graphql.NewNonNull(b.notificationTypeEnum)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"message":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"link":      &graphql.Field{Type: graphql.String},
			"read":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
		},
	})

	b.buildInputs()
}

func (b *schemaBuilder) buildInputs() {
	b.addressInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddressInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"street":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"city":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"state":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"zipCode": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"country": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.registerInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RegisterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"role":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(b.userRoleEnum)},
		},
	})

	b.loginInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"role":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(b.userRoleEnum)},
		},
	})

	b.updateUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"avatar":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"phone":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"address": &graphql.InputObjectFieldConfig{Type: b.addressInput},
		},
	})

	b.productColorInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductColorInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"value": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.productInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"price":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"originalPrice": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"currency":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"images":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"categoryId":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"stock":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"sku":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"sizes":         &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"colors":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(b.productColorInput))},
			"badge":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"features":      &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"isFeatured":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	b.productUpdateInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"price":         &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"originalPrice": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"images":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"categoryId":    &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"stock":         &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"sizes":         &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"colors":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(b.productColorInput))},
			"badge":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"features":      &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"isFeatured":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	b.categoryInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"slug":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	b.categoryUpdateInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CategoryUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"slug":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	b.orderItemInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderItemInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"productId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"quantity":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"price":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"size":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"color":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	b.orderInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"items":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.orderItemInput)))},
			"shippingAddress": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(b.addressInput)},
		},
	})

	b.reviewInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ReviewInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"productId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"orderId":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"rating":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"comment":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
}
