package orderitem

import (
	"time"

	"github.com/webshop-labs/storefront/internal/service/models/product"
)

// OrderItem represents an item within an order
type OrderItem struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"orderId"`
	ProductID  int64     `json:"productId"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`

	// Product carries display fields (name, price, image) resolved at read time.
	Product *product.Product `json:"product,omitempty"`
}
