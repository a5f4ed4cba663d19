package models

import (
	"time"
)

// NotificationType is the closed set of notification kinds.
type NotificationType string

const (
	NotifyOrderCreated    NotificationType = "ORDER_CREATED"
	NotifyOrderUpdated    NotificationType = "ORDER_UPDATED"
	NotifyOrderCancelled  NotificationType = "ORDER_CANCELLED"
	NotifyProductLowStock NotificationType = "PRODUCT_LOW_STOCK"
	NotifyNewMessage      NotificationType = "NEW_MESSAGE"
	NotifySystemAlert     NotificationType = "SYSTEM_ALERT"
)

// Notification is an in-app notification delivered over the event relay.
// Notifications are not persisted; a subscriber that is offline at publish
// time never sees them.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
