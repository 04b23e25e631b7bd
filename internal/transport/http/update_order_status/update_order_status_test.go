package updateorderstatus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/webshop-labs/storefront/internal/dal/repositories"
	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/status"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateStatus(ctx context.Context, orderID int64, newStatus string) (order.Order, error) {
	args := m.Called(ctx, orderID, newStatus)

	return args.Get(0).(order.Order), args.Error(1)
}

func serve(svc service, target, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Put("/api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		UpdateOrderStatus(w, r, svc)
	})

	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("updates the order and returns it", func(t *testing.T) {
		svc := &mockService{}
		svc.On("UpdateStatus", mock.Anything, int64(4), "shipped").
			Return(order.Order{ID: 4, Status: status.StatusShipped}, nil)

		rec := serve(svc, "/api/orders/4/status", `{"status":"shipped"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"shipped"`)
		svc.AssertExpectations(t)
	})

	t.Run("rejects a non-numeric order id", func(t *testing.T) {
		svc := &mockService{}

		rec := serve(svc, "/api/orders/abc/status", `{"status":"shipped"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("rejects a status outside the enumeration", func(t *testing.T) {
		svc := &mockService{}
		svc.On("UpdateStatus", mock.Anything, int64(4), "misplaced").
			Return(order.Order{}, status.ErrInvalidStatus)

		rec := serve(svc, "/api/orders/4/status", `{"status":"misplaced"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid status value")
	})

	t.Run("reports a missing order as 404", func(t *testing.T) {
		svc := &mockService{}
		svc.On("UpdateStatus", mock.Anything, int64(99), "shipped").
			Return(order.Order{}, &repositories.NotFoundError{Resource: "order", Key: "id", Value: "99"})

		rec := serve(svc, "/api/orders/99/status", `{"status":"shipped"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("maps unexpected failures to 500", func(t *testing.T) {
		svc := &mockService{}
		svc.On("UpdateStatus", mock.Anything, int64(4), "shipped").
			Return(order.Order{}, errors.New("connection reset"))

		rec := serve(svc, "/api/orders/4/status", `{"status":"shipped"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
