package placeorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/orderitem"
	"github.com/webshop-labs/storefront/internal/service/models/status"
	"github.com/webshop-labs/storefront/internal/service/services/ordersvc"
	"github.com/webshop-labs/storefront/pkg/http/middleware/auth"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) PlaceOrder(ctx context.Context, userID int64, items []orderitem.OrderItem, totalCents int64) (order.Order, error) {
	args := m.Called(ctx, userID, items, totalCents)

	return args.Get(0).(order.Order), args.Error(1)
}

func serve(t *testing.T, svc service, body string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	authenticator := auth.NewAuthenticator("test-secret", time.Hour)
	handler := authenticator.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		PlaceOrder(w, r, svc)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	if authenticated {
		token, err := authenticator.GenerateToken(7, false)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestPlaceOrder(t *testing.T) {
	validBody := `{"items":[{"productId":3,"quantity":2,"priceCents":900}],"totalCents":1800}`

	t.Run("places an order for the authenticated user", func(t *testing.T) {
		svc := &mockService{}
		svc.On("PlaceOrder", mock.Anything, int64(7), []orderitem.OrderItem{
			{ProductID: 3, Quantity: 2, PriceCents: 900},
		}, int64(1800)).Return(order.Order{ID: 1, UserID: 7, Status: status.StatusPending}, nil)

		rec := serve(t, svc, validBody, true)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"pending"`)
		svc.AssertExpectations(t)
	})

	t.Run("requires authentication", func(t *testing.T) {
		svc := &mockService{}

		rec := serve(t, svc, validBody, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("rejects an order without items", func(t *testing.T) {
		svc := &mockService{}
		svc.On("PlaceOrder", mock.Anything, int64(7), []orderitem.OrderItem{}, int64(0)).
			Return(order.Order{}, ordersvc.ErrNoItems)

		rec := serve(t, svc, `{"items":[],"totalCents":0}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "no order items")
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		svc := &mockService{}

		rec := serve(t, svc, `{"items":`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("rejects a non-positive quantity", func(t *testing.T) {
		svc := &mockService{}

		rec := serve(t, svc, `{"items":[{"productId":3,"quantity":0,"priceCents":900}],"totalCents":0}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "PlaceOrder")
	})
}
