package iauditrepo

import (
	"context"

	"github.com/webshop-labs/storefront/internal/service/models/orderevent"
)

// IAuditRepository publishes order lifecycle events for auditing.
type IAuditRepository interface {
	Publish(ctx context.Context, events []orderevent.OrderEvent) error
}
