package order

import (
	"time"

	"github.com/webshop-labs/storefront/internal/service/models/orderitem"
	"github.com/webshop-labs/storefront/internal/service/models/status"
	"github.com/webshop-labs/storefront/internal/service/models/user"
)

// Order represents a customer's placed purchase request.
type Order struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"userId"`
	TotalCents int64                 `json:"totalCents"`
	Status     status.Status         `json:"status"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	Items      []orderitem.OrderItem `json:"items"`

	// Customer is populated for admin-facing reads only.
	Customer *user.User `json:"customer,omitempty"`
}
