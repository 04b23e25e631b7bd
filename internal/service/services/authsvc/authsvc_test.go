package authsvc

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/webshop-labs/storefront/internal/dal/repositories"
	"github.com/webshop-labs/storefront/internal/service/models/user"
)

type memUserRepo struct {
	users []user.User
}

func (r *memUserRepo) Insert(_ context.Context, u user.User) (user.User, error) {
	u.ID = int64(len(r.users) + 1)
	r.users = append(r.users, u)

	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, &repositories.NotFoundError{Resource: "user", Key: "id", Value: "?"}
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, &repositories.NotFoundError{Resource: "user", Key: "email", Value: email}
}

func (r *memUserRepo) GetByIDs(_ context.Context, _ []int64) ([]user.User, error) {
	return nil, nil
}

func (r *memUserRepo) Search(_ context.Context, _ string) ([]user.User, error) {
	return nil, nil
}

type stubIssuer struct{}

func (stubIssuer) GenerateToken(userID int64, isAdmin bool) (string, error) {
	return fmt.Sprintf("token-%d-%t", userID, isAdmin), nil
}

func newService(repo *memUserRepo) *AuthService {
	return MustNewAuthService(
		WithUserRepository(repo),
		WithTokenIssuer(stubIssuer{}),
	)
}

func TestRegister(t *testing.T) {
	t.Run("stores a lowercased email and a bcrypt hash", func(t *testing.T) {
		repo := &memUserRepo{}
		svc := newService(repo)

		created, token, err := svc.Register(context.Background(), "Ann", "Ann@Example.COM", "hunter22")

		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", created.Email)
		assert.Equal(t, "token-1-false", token)

		assert.NotEqual(t, "hunter22", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")))
	})

	t.Run("rejects an already registered email", func(t *testing.T) {
		repo := &memUserRepo{}
		svc := newService(repo)

		_, _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "hunter22")
		require.NoError(t, err)

		_, _, err = svc.Register(context.Background(), "Impostor", "ANN@example.com", "other")

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.Len(t, repo.users, 1)
	})
}

func TestLogin(t *testing.T) {
	setup := func(t *testing.T) (*AuthService, *memUserRepo) {
		t.Helper()
		repo := &memUserRepo{}
		svc := newService(repo)
		_, _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "hunter22")
		require.NoError(t, err)

		return svc, repo
	}

	t.Run("returns the user and a token for valid credentials", func(t *testing.T) {
		svc, _ := setup(t)

		u, token, err := svc.Login(context.Background(), "ANN@example.com", "hunter22")

		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", u.Email)
		assert.Equal(t, "token-1-false", token)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		svc, _ := setup(t)

		_, _, err := svc.Login(context.Background(), "ann@example.com", "letmein")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects an unknown email with the same error", func(t *testing.T) {
		svc, _ := setup(t)

		_, _, err := svc.Login(context.Background(), "ghost@example.com", "hunter22")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestProfile(t *testing.T) {
	repo := &memUserRepo{}
	svc := newService(repo)

	created, _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "hunter22")
	require.NoError(t, err)

	got, err := svc.Profile(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Profile(context.Background(), 999)

	var notFound *repositories.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
