package listallorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/transport/http/response"
)

// service is an interface for the service layer.
type service interface {
	ListAllOrders(ctx context.Context, searchTerm string) ([]order.Order, error)
}

type listAllOrdersRequest struct {
	Search string `schema:"search,omitempty"`
}

// ListAllOrders handles the admin list orders request, optionally scoped to
// users matching the search term.
func ListAllOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &listAllOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.ListAllOrders(r.Context(), query.Search)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error listing all orders", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, orders)
}
