package services

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderNumberAttempts = 10
)

// nextOrderNumber assigns a human-readable order number in the form
// ORD-<YYYYMMDD>-<6 chars>. Collisions are retried a bounded number of
// times; if every attempt collides, a timestamp-derived suffix is used.
func (s *OrderService) nextOrderNumber(ctx context.Context) (string, error) {
	dateStr := time.Now().Format("20060102")

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		suffix := make([]byte, 6)
		for i := range suffix {
			suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
		}
		orderNumber := fmt.Sprintf("ORD-%s-%s", dateStr, suffix)

		exists, err := s.orders.OrderNumberExists(ctx, orderNumber)
		if err != nil {
			return "", err
		}
		if !exists {
			return orderNumber, nil
		}
	}

	// Timestamp fallback when every random attempt collided.
	suffix := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("ORD-%s-%s", dateStr, suffix), nil
}
