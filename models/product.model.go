package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Currencies is the closed set of accepted currency codes.
var Currencies = []string{"USD", "EUR", "GBP", "GHS", "NGN", "ZAR"}

// ProductColor is a named color variant with a hex value.
type ProductColor struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

// Product belongs to exactly one category and one vendor. Rating and
// ReviewCount are aggregates recomputed from reviews, never set directly.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice *float64           `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Currency      string             `bson:"currency" json:"currency"`
	Images        []string           `bson:"images" json:"images"`
	CategoryID    primitive.ObjectID `bson:"category" json:"categoryId"`
	VendorID      primitive.ObjectID `bson:"vendor" json:"vendorId"`
	Stock         int                `bson:"stock" json:"stock"`
	SKU           string             `bson:"sku" json:"sku"`
	Sizes         []string           `bson:"sizes" json:"sizes"`
	Colors        []ProductColor     `bson:"colors" json:"colors"`
	Badge         string             `bson:"badge,omitempty" json:"badge,omitempty"`
	Rating        float64            `bson:"rating" json:"rating"`
	ReviewCount   int                `bson:"reviewCount" json:"reviewCount"`
	Features      []string           `bson:"features" json:"features"`
	IsFeatured    bool               `bson:"isFeatured" json:"isFeatured"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductDeleted is the payload published when a product is removed.
type ProductDeleted struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DeletedAt time.Time `json:"deletedAt"`
}

// ValidCurrency reports whether code is in the accepted set.
func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}
