package updateorderstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webshop-labs/storefront/internal/dal/repositories"
	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/status"
	"github.com/webshop-labs/storefront/internal/transport/http/response"
)

// service is an interface for the service layer.
type service interface {
	UpdateStatus(ctx context.Context, orderID int64, newStatus string) (order.Order, error)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles the admin status update request.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid order id")

		return
	}

	req := updateOrderStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	updated, err := service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		if errors.Is(err, status.ErrInvalidStatus) {
			response.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid status value")

			return
		}

		var notFound *repositories.NotFoundError
		if errors.As(err, &notFound) {
			response.WriteError(w, http.StatusNotFound, "not_found", notFound.Error())

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error updating order status", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, updated)
}
