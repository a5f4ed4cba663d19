package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products. Its product list is derived by query, not stored.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}
