package listmyorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/transport/http/response"
	"github.com/webshop-labs/storefront/pkg/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	ListOwnOrders(ctx context.Context, userID int64) ([]order.Order, error)
}

// ListMyOrders handles the list own orders request.
func ListMyOrders(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")

		return
	}

	orders, err := service.ListOwnOrders(r.Context(), identity.UserID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error listing own orders", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, orders)
}
