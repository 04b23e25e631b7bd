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
	"github.com/webshop-labs/storefront/internal/service/models/product"
)

const productColumns = "id, name, description, price_cents, image_url, category, in_stock, created_at, updated_at"

// ProductDal represents the product data access layer model.
type ProductDal struct {
	Id          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	ImageUrl    string    `db:"image_url"`
	Category    string    `db:"category"`
	InStock     bool      `db:"in_stock"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToModel converts ProductDal to the service layer Product model.
func (p *ProductDal) ToModel() *product.Product {
	return &product.Product{
		ID:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		ImageURL:    p.ImageUrl,
		Category:    p.Category,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type PostgresProductRepository struct {
	conn postgres.Querier
}

func NewPostgresProductRepository(conn postgres.Querier) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// Insert persists a new product and returns it with the assigned id.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := sq.Insert("products").
		Columns("name", "description", "price_cents", "image_url", "category", "in_stock", "created_at", "updated_at").
		Values(p.Name, p.Description, p.PriceCents, p.ImageURL, p.Category, p.InStock, p.CreatedAt, p.UpdatedAt).
		Suffix("RETURNING " + productColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	model, err := scanProduct(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return *model, nil
}

// GetByID retrieves a product by id.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (product.Product, error) {
	query, args, err := sq.Select(productColumns).
		From("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build select query: %w", err)
	}

	model, err := scanProduct(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, &repositories.NotFoundError{
				Resource: "product",
				Key:      "id",
				Value:    strconv.FormatInt(id, 10),
			}
		}

		return product.Product{}, fmt.Errorf("failed to get product by id: %w", err)
	}

	return *model, nil
}

// Query retrieves products based on filter criteria.
func (r *PostgresProductRepository) Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	builder := sq.Select(productColumns).
		From("products").
		OrderBy(sortClause(filter.SortBy)).
		PlaceholderFormat(sq.Dollar)

	builder = applySearch(builder, filter.Search)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
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
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Count returns the number of products matching the filter's search term.
func (r *PostgresProductRepository) Count(ctx context.Context, filter *product.QueryProductsModel) (int64, error) {
	builder := sq.Select("count(*)").
		From("products").
		PlaceholderFormat(sq.Dollar)

	builder = applySearch(builder, filter.Search)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Update persists mutations to an existing product.
func (r *PostgresProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := sq.Update("products").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("price_cents", p.PriceCents).
		Set("image_url", p.ImageURL).
		Set("category", p.Category).
		Set("in_stock", p.InStock).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING " + productColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build update query: %w", err)
	}

	model, err := scanProduct(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, &repositories.NotFoundError{
				Resource: "product",
				Key:      "id",
				Value:    strconv.FormatInt(p.ID, 10),
			}
		}

		return product.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return *model, nil
}

// Delete removes a product from the catalog.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &repositories.NotFoundError{
			Resource: "product",
			Key:      "id",
			Value:    strconv.FormatInt(id, 10),
		}
	}

	return nil
}

func applySearch(builder sq.SelectBuilder, search string) sq.SelectBuilder {
	if search == "" {
		return builder
	}

	pattern := "%" + search + "%"

	return builder.Where(sq.Or{
		sq.ILike{"name": pattern},
		sq.ILike{"category": pattern},
		sq.ILike{"description": pattern},
	})
}

func sortClause(sortBy string) string {
	switch sortBy {
	case product.SortPriceAsc:
		return "price_cents ASC"
	case product.SortPriceDesc:
		return "price_cents DESC"
	case product.SortName:
		return "name ASC"
	default:
		return "created_at DESC"
	}
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var dal ProductDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.PriceCents,
		&dal.ImageUrl,
		&dal.Category,
		&dal.InStock,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel(), nil
}
