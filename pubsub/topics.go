package pubsub

import "fmt"

// Topic names. Publishers and subscribers must agree on the exact string;
// scoped variants append "_<entityId>".
const (
	TopicOrderCreated       = "ORDER_CREATED"
	TopicOrderUpdated       = "ORDER_UPDATED"
	TopicOrderStatusChanged = "ORDER_STATUS_CHANGED"
	TopicProductCreated     = "PRODUCT_CREATED"
	TopicProductUpdated     = "PRODUCT_UPDATED"
	TopicProductDeleted     = "PRODUCT_DELETED"
	TopicNotificationAdded  = "NOTIFICATION_ADDED"
)

// Scoped returns the entity-scoped variant of a topic.
func Scoped(topic, entityID string) string {
	return fmt.Sprintf("%s_%s", topic, entityID)
}
