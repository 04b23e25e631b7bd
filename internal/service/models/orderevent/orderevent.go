package orderevent

import (
	"time"

	"github.com/webshop-labs/storefront/internal/service/models/status"
)

// Event types published to the audit queue.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the audit payload published when an order is created or its
// status changes.
type OrderEvent struct {
	Type       string        `json:"type"`
	OrderID    int64         `json:"orderId"`
	UserID     int64         `json:"userId"`
	Status     status.Status `json:"status"`
	TotalCents int64         `json:"totalCents"`
	OccurredAt time.Time     `json:"occurredAt"`
}
