package placeorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/orderitem"
	"github.com/webshop-labs/storefront/internal/service/services/ordersvc"
	"github.com/webshop-labs/storefront/internal/transport/http/response"
	"github.com/webshop-labs/storefront/pkg/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, userID int64, items []orderitem.OrderItem, totalCents int64) (order.Order, error)
}

// itemInPlaceOrderRequest represents an item in a place order request.
type itemInPlaceOrderRequest struct {
	ProductID  int64 `json:"productId"  validate:"gt=0"`
	Quantity   int   `json:"quantity"   validate:"gt=0"`
	PriceCents int64 `json:"priceCents" validate:"gte=0"`
}

// placeOrderRequest represents a place order request.
type placeOrderRequest struct {
	Items      []itemInPlaceOrderRequest `json:"items"      validate:"dive"`
	TotalCents int64                     `json:"totalCents" validate:"gte=0"`
}

// Validate validates the place order request.
func (r *placeOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *placeOrderRequest) toItems() []orderitem.OrderItem {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = orderitem.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		}
	}

	return items
}

// PlaceOrder handles the place order request for an authenticated customer.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")

		return
	}

	req := placeOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error validating request body for place order", "error", err)

		return
	}

	placed, err := service.PlaceOrder(r.Context(), identity.UserID, req.toItems(), req.TotalCents)
	if err != nil {
		if errors.Is(err, ordersvc.ErrNoItems) {
			response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error placing order", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusCreated, placed)
}
