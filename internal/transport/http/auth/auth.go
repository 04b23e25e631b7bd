package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/webshop-labs/storefront/internal/service/models/user"
	"github.com/webshop-labs/storefront/internal/service/services/authsvc"
	"github.com/webshop-labs/storefront/internal/transport/http/response"
	authmw "github.com/webshop-labs/storefront/pkg/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, name, email, password string) (user.User, string, error)
	Login(ctx context.Context, email, password string) (user.User, string, error)
	Profile(ctx context.Context, userID int64) (user.User, error)
}

// registerRequest represents a registration request.
type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// loginRequest represents a login request.
type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse is returned on successful registration or login.
type authResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

// Register handles the registration request.
func Register(w http.ResponseWriter, r *http.Request, service service) {
	req := registerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request body for registration", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

		return
	}

	registered, token, err := service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrEmailTaken) {
			response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error registering user", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusCreated, authResponse{
		User:  registered,
		Token: token,
	})
}

// Login handles the login request.
func Login(w http.ResponseWriter, r *http.Request, service service) {
	req := loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request body for login", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

		return
	}

	loggedIn, token, err := service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			response.WriteError(w, http.StatusUnauthorized, "authentication_failed", err.Error())

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error logging in", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, authResponse{
		User:  loggedIn,
		Token: token,
	})
}

// Profile handles the profile request for an authenticated caller.
func Profile(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := authmw.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")

		return
	}

	profile, err := service.Profile(r.Context(), identity.UserID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error fetching profile", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, profile)
}
