package createorderforuser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/webshop-labs/storefront/internal/dal/repositories"
	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/orderitem"
	"github.com/webshop-labs/storefront/internal/service/models/status"
	"github.com/webshop-labs/storefront/internal/service/services/ordersvc"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateForUser(ctx context.Context, userEmail string, items []orderitem.OrderItem, totalCents int64, initialStatus string) (order.Order, error) {
	args := m.Called(ctx, userEmail, items, totalCents, initialStatus)

	return args.Get(0).(order.Order), args.Error(1)
}

func serve(svc service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/admin", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CreateOrderForUser(rec, req, svc)

	return rec
}

func TestCreateOrderForUser(t *testing.T) {
	t.Run("creates an order for the given customer", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CreateForUser", mock.Anything, "ann@example.com", []orderitem.OrderItem{
			{ProductID: 3, Quantity: 1, PriceCents: 900},
		}, int64(900), "processing").
			Return(order.Order{ID: 1, Status: status.StatusProcessing}, nil)

		rec := serve(svc, `{"userEmail":"ann@example.com","items":[{"productId":3,"quantity":1,"priceCents":900}],"totalCents":900,"status":"processing"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"processing"`)
		svc.AssertExpectations(t)
	})

	t.Run("maps a missing email to 400", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CreateForUser", mock.Anything, "", mock.Anything, mock.Anything, mock.Anything).
			Return(order.Order{}, ordersvc.ErrEmailRequired)

		rec := serve(svc, `{"items":[{"productId":3,"quantity":1,"priceCents":900}],"totalCents":900}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "userEmail is required")
	})

	t.Run("maps an unknown email to 404", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CreateForUser", mock.Anything, "ghost@example.com", mock.Anything, mock.Anything, mock.Anything).
			Return(order.Order{}, &repositories.NotFoundError{Resource: "user", Key: "email", Value: "ghost@example.com"})

		rec := serve(svc, `{"userEmail":"ghost@example.com","items":[{"productId":3,"quantity":1,"priceCents":900}],"totalCents":900}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "User not found for provided email")
	})
}
