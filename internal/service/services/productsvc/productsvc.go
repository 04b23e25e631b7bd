package productsvc

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/webshop-labs/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/webshop-labs/storefront/internal/service/models/product"
)

const (
	defaultPageSize = 12
)

// ProductService manages the product catalog.
type ProductService struct {
	productRepo iproductrepo.IProductRepository
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProductRepository sets the product repository for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(productRepo iproductrepo.IProductRepository) option {
	return func(s *ProductService) {
		s.productRepo = productRepo
	}
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products      []product.Product `json:"products"`
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalProducts int64             `json:"totalProducts"`
}

// ListProducts returns a page of products matching the search term, in the
// requested sort order. Page numbers start at 1.
func (s *ProductService) ListProducts(ctx context.Context, search, sortBy string, page, limit int) (ProductPage, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.ListProducts")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	filter := &product.QueryProductsModel{
		Search: search,
		SortBy: sortBy,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	products, err := s.productRepo.Query(ctx, filter)
	if err != nil {
		return ProductPage{}, err
	}
	if products == nil {
		products = []product.Product{}
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return ProductPage{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return ProductPage{
		Products:      products,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProducts: total,
	}, nil
}

// GetProduct returns a single product by id.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.GetProduct")
	defer span.End()

	return s.productRepo.GetByID(ctx, id)
}

// CreateProduct adds a new product to the catalog.
func (s *ProductService) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.productRepo.Insert(ctx, p)
}

// ProductUpdate carries a partial product mutation; nil fields keep the
// stored value.
type ProductUpdate struct {
	Name        *string
	Description *string
	PriceCents  *int64
	ImageURL    *string
	Category    *string
	InStock     *bool
}

// UpdateProduct applies a partial update to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) (product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return product.Product{}, err
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.PriceCents != nil {
		p.PriceCents = *upd.PriceCents
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.InStock != nil {
		p.InStock = *upd.InStock
	}

	return s.productRepo.Update(ctx, p)
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	return s.productRepo.Delete(ctx, id)
}
