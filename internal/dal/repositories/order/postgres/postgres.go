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
	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/orderitem"
	"github.com/webshop-labs/storefront/internal/service/models/status"
)

const orderColumns = "id, user_id, total_cents, status, created_at, updated_at"

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id         int64     `db:"id"`
	UserId     int64     `db:"user_id"`
	TotalCents int64     `db:"total_cents"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	st, err := status.Parse(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:         o.Id,
		UserID:     o.UserId,
		TotalCents: o.TotalCents,
		Status:     st,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Items:      []orderitem.OrderItem{}, // Populated separately
	}, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert persists a new order and returns it with the assigned id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns("user_id", "total_cents", "status", "created_at", "updated_at").
		Values(o.UserID, o.TotalCents, o.Status.String(), o.CreatedAt, o.UpdatedAt).
		Suffix("RETURNING " + orderColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	inserted, err := scanOrder(row)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	inserted.Items = append(inserted.Items, o.Items...)

	return *inserted, nil
}

// GetByID retrieves a single order by id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (order.Order, error) {
	query, args, err := sq.Select(orderColumns).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build select query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	model, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, &repositories.NotFoundError{
				Resource: "order",
				Key:      "id",
				Value:    strconv.FormatInt(id, 10),
			}
		}

		return order.Order{}, fmt.Errorf("failed to get order by id: %w", err)
	}

	return *model, nil
}

// Query retrieves orders based on filter criteria, most recent first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.UserIds) > 0 {
		builder = builder.Where(sq.Eq{"user_id": filter.UserIds})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus persists a status mutation and bumps updated_at.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Update("orders").
		Set("status", o.Status.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": o.ID}).
		Suffix("RETURNING " + orderColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	updated, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, &repositories.NotFoundError{
				Resource: "order",
				Key:      "id",
				Value:    strconv.FormatInt(o.ID, 10),
			}
		}

		return order.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	updated.Items = append(updated.Items, o.Items...)

	return *updated, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.UserId,
		&dal.TotalCents,
		&dal.Status,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}
