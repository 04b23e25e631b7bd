package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)

	token, err := a.GenerateToken(42, true)
	require.NoError(t, err)

	claims, err := a.ParseToken(token)

	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken(t *testing.T) {
	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewAuthenticator("other-secret", time.Hour)
		token, err := other.GenerateToken(42, false)
		require.NoError(t, err)

		a := NewAuthenticator("test-secret", time.Hour)
		_, err = a.ParseToken(token)

		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		a := NewAuthenticator("test-secret", -time.Minute)
		token, err := a.GenerateToken(42, false)
		require.NoError(t, err)

		_, err = a.ParseToken(token)

		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		a := NewAuthenticator("test-secret", time.Hour)

		_, err := a.ParseToken("not.a.token")

		assert.Error(t, err)
	})
}

func TestHandler(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(7), identity.UserID)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", authHeader: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			a.Handler(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	t.Run("valid token reaches the handler with identity attached", func(t *testing.T) {
		token, err := a.GenerateToken(7, false)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		a.Handler(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(t *testing.T, token string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		a.Handler(a.AdminOnly(next)).ServeHTTP(rec, req)

		return rec
	}

	t.Run("forbids non-admin callers", func(t *testing.T) {
		token, err := a.GenerateToken(7, false)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, serve(t, token).Code)
	})

	t.Run("admits admin callers", func(t *testing.T) {
		token, err := a.GenerateToken(7, true)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, serve(t, token).Code)
	})
}
