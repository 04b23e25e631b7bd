package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/webshop-labs/storefront/internal/service/models/user"
	"github.com/webshop-labs/storefront/internal/service/services/authsvc"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Register(ctx context.Context, name, email, password string) (user.User, string, error) {
	args := m.Called(ctx, name, email, password)

	return args.Get(0).(user.User), args.String(1), args.Error(2)
}

func (m *mockService) Login(ctx context.Context, email, password string) (user.User, string, error) {
	args := m.Called(ctx, email, password)

	return args.Get(0).(user.User), args.String(1), args.Error(2)
}

func (m *mockService) Profile(ctx context.Context, userID int64) (user.User, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).(user.User), args.Error(1)
}

func TestRegister(t *testing.T) {
	serve := func(svc service, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		Register(rec, req, svc)

		return rec
	}

	t.Run("registers a user and returns a token", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Register", mock.Anything, "Ann", "ann@example.com", "hunter22").
			Return(user.User{ID: 1, Name: "Ann", Email: "ann@example.com"}, "tok", nil)

		rec := serve(svc, `{"name":"Ann","email":"ann@example.com","password":"hunter22"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"tok"`)
		svc.AssertExpectations(t)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		svc := &mockService{}

		rec := serve(svc, `{"name":"Ann","email":"ann@example.com","password":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Register")
	})

	t.Run("maps a taken email to 400", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Register", mock.Anything, "Ann", "ann@example.com", "hunter22").
			Return(user.User{}, "", authsvc.ErrEmailTaken)

		rec := serve(svc, `{"name":"Ann","email":"ann@example.com","password":"hunter22"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "email already registered")
	})
}

func TestLogin(t *testing.T) {
	serve := func(svc service, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		Login(rec, req, svc)

		return rec
	}

	t.Run("returns the user and a token", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Login", mock.Anything, "ann@example.com", "hunter22").
			Return(user.User{ID: 1, Email: "ann@example.com"}, "tok", nil)

		rec := serve(svc, `{"email":"ann@example.com","password":"hunter22"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"tok"`)
	})

	t.Run("maps bad credentials to 401", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Login", mock.Anything, "ann@example.com", "wrong").
			Return(user.User{}, "", authsvc.ErrInvalidCredentials)

		rec := serve(svc, `{"email":"ann@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("never echoes the password hash", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Login", mock.Anything, "ann@example.com", "hunter22").
			Return(user.User{ID: 1, Email: "ann@example.com", PasswordHash: "secret-hash"}, "tok", nil)

		rec := serve(svc, `{"email":"ann@example.com","password":"hunter22"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret-hash")
	})
}
