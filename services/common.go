package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eco-swift-backend/apperr"
	"eco-swift-backend/utils"
)

// AddressInput is the validated shipping/profile address input.
type AddressInput struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func parseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validationf("Invalid %s id", what)
	}
	return id, nil
}

// callerID resolves the authenticated caller's id, failing when there is no
// identity on the request.
func callerID(claims *utils.Claims) (primitive.ObjectID, error) {
	if claims == nil {
		return primitive.NilObjectID, apperr.NotAuthenticated()
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, apperr.NotAuthenticated()
	}
	return id, nil
}
