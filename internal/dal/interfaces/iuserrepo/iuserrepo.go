package iuserrepo

import (
	"context"

	"github.com/webshop-labs/storefront/internal/service/models/user"
)

// IUserRepository is an interface for the user postgres repository.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]user.User, error)
	Search(ctx context.Context, term string) ([]user.User, error)
}
