package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/webshop-labs/storefront/internal/dal/postgres"
	"github.com/webshop-labs/storefront/internal/dal/repositories"
	"github.com/webshop-labs/storefront/internal/service/models/user"
)

const userColumns = "id, name, email, password_hash, is_admin, created_at, updated_at"

// UserDal represents the user data access layer model.
type UserDal struct {
	Id           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts UserDal to the service layer User model.
func (u *UserDal) ToModel() *user.User {
	return &user.User{
		ID:           u.Id,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type PostgresUserRepository struct {
	conn postgres.Querier
}

func NewPostgresUserRepository(conn postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
	}
}

// Insert persists a new user and returns it with the assigned id.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := sq.Insert("users").
		Columns("name", "email", "password_hash", "is_admin", "created_at", "updated_at").
		Values(u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING " + userColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	model, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return *model, nil
}

// GetByID retrieves a user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	query, args, err := sq.Select(userColumns).
		From("users").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build select query: %w", err)
	}

	model, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, &repositories.NotFoundError{
				Resource: "user",
				Key:      "id",
				Value:    strconv.FormatInt(id, 10),
			}
		}

		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return *model, nil
}

// GetByEmail retrieves a user by email. The caller must lowercase the email
// before lookup; addresses are stored case-folded.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	query, args, err := sq.Select(userColumns).
		From("users").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build select query: %w", err)
	}

	model, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, &repositories.NotFoundError{
				Resource: "user",
				Key:      "email",
				Value:    email,
			}
		}

		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return *model, nil
}

// GetByIDs retrieves multiple users by id for batch owner resolution.
func (r *PostgresUserRepository) GetByIDs(ctx context.Context, ids []int64) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}

	query, args, err := sq.Select(userColumns).
		From("users").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.queryUsers(ctx, query, args)
}

// Search performs a case-insensitive substring match against name or email.
func (r *PostgresUserRepository) Search(ctx context.Context, term string) ([]user.User, error) {
	pattern := "%" + term + "%"

	query, args, err := sq.Select(userColumns).
		From("users").
		Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	return r.queryUsers(ctx, query, args)
}

func (r *PostgresUserRepository) queryUsers(ctx context.Context, query string, args []interface{}) ([]user.User, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		model, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var dal UserDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Email,
		&dal.PasswordHash,
		&dal.IsAdmin,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel(), nil
}
