package authsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/webshop-labs/storefront/internal/dal/interfaces/iuserrepo"
	"github.com/webshop-labs/storefront/internal/service/models/user"
)

var (
	// ErrInvalidCredentials is returned on login with a wrong email or
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("email already registered")
)

// tokenIssuer issues signed tokens for authenticated users.
type tokenIssuer interface {
	GenerateToken(userID int64, isAdmin bool) (string, error)
}

// AuthService handles registration, login and profile reads.
type AuthService struct {
	userRepo iuserrepo.IUserRepository
	issuer   tokenIssuer
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithUserRepository sets the user repository for the AuthService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(userRepo iuserrepo.IUserRepository) option {
	return func(s *AuthService) {
		s.userRepo = userRepo
	}
}

// WithTokenIssuer sets the token issuer for the AuthService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenIssuer(issuer tokenIssuer) option {
	return func(s *AuthService) {
		s.issuer = issuer
	}
}

// Register creates a new user with a bcrypt password hash and returns the
// user together with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (user.User, string, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Register")
	defer span.End()

	email = strings.ToLower(email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return user.User{}, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", err
	}

	now := time.Now()
	created, err := s.userRepo.Insert(ctx, user.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return user.User{}, "", err
	}

	token, err := s.issuer.GenerateToken(created.ID, created.IsAdmin)
	if err != nil {
		return user.User{}, "", err
	}

	return created, token, nil
}

// Login verifies the password for the given email and returns the user with
// a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (user.User, string, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Login")
	defer span.End()

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(u.ID, u.IsAdmin)
	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

// Profile returns the user record for an authenticated caller.
func (s *AuthService) Profile(ctx context.Context, userID int64) (user.User, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Profile")
	defer span.End()

	return s.userRepo.GetByID(ctx, userID)
}
