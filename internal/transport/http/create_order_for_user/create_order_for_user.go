package createorderforuser

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/webshop-labs/storefront/internal/dal/repositories"
	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/orderitem"
	"github.com/webshop-labs/storefront/internal/service/services/ordersvc"
	"github.com/webshop-labs/storefront/internal/transport/http/response"
)

// service is an interface for the service layer.
type service interface {
	CreateForUser(ctx context.Context, userEmail string, items []orderitem.OrderItem, totalCents int64, initialStatus string) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in an admin create order request.
type itemInCreateOrderRequest struct {
	ProductID  int64 `json:"productId"  validate:"gt=0"`
	Quantity   int   `json:"quantity"   validate:"gt=0"`
	PriceCents int64 `json:"priceCents" validate:"gte=0"`
}

// createOrderForUserRequest represents an admin create order request.
type createOrderForUserRequest struct {
	UserEmail  string                     `json:"userEmail"`
	Items      []itemInCreateOrderRequest `json:"items"      validate:"dive"`
	TotalCents int64                      `json:"totalCents" validate:"gte=0"`
	Status     string                     `json:"status"`
}

// Validate validates the create order request.
func (r *createOrderForUserRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *createOrderForUserRequest) toItems() []orderitem.OrderItem {
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

// CreateOrderForUser handles the admin create-on-behalf request.
func CreateOrderForUser(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderForUserRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request body for admin order creation", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error validating request body for admin order creation", "error", err)

		return
	}

	created, err := service.CreateForUser(r.Context(), req.UserEmail, req.toItems(), req.TotalCents, req.Status)
	if err != nil {
		if errors.Is(err, ordersvc.ErrNoItems) || errors.Is(err, ordersvc.ErrEmailRequired) {
			response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

			return
		}

		var notFound *repositories.NotFoundError
		if errors.As(err, &notFound) {
			response.WriteError(w, http.StatusNotFound, "not_found", "User not found for provided email")

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error creating order for user", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusCreated, created)
}
