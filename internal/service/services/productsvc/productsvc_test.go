package productsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/webshop-labs/storefront/internal/service/models/product"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	args := m.Called(ctx, p)

	return args.Get(0).(product.Product), args.Error(1)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (product.Product, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(product.Product), args.Error(1)
}

func (m *mockProductRepo) Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	args := m.Called(ctx, filter)

	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context, filter *product.QueryProductsModel) (int64, error) {
	args := m.Called(ctx, filter)

	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p product.Product) (product.Product, error) {
	args := m.Called(ctx, p)

	return args.Get(0).(product.Product), args.Error(1)
}

func (m *mockProductRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func TestListProducts(t *testing.T) {
	t.Run("translates page and limit into an offset filter", func(t *testing.T) {
		repo := &mockProductRepo{}
		svc := MustNewProductService(WithProductRepository(repo))

		want := &product.QueryProductsModel{
			Search: "lamp",
			SortBy: product.SortPriceAsc,
			Limit:  12,
			Offset: 24,
		}
		repo.On("Query", mock.Anything, want).Return([]product.Product{{ID: 1}}, nil)
		repo.On("Count", mock.Anything, want).Return(int64(25), nil)

		page, err := svc.ListProducts(context.Background(), "lamp", product.SortPriceAsc, 3, 0)

		require.NoError(t, err)
		assert.Equal(t, 3, page.CurrentPage)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(25), page.TotalProducts)
		repo.AssertExpectations(t)
	})

	t.Run("clamps page numbers below one", func(t *testing.T) {
		repo := &mockProductRepo{}
		svc := MustNewProductService(WithProductRepository(repo))

		repo.On("Query", mock.Anything, mock.MatchedBy(func(f *product.QueryProductsModel) bool {
			return f.Offset == 0 && f.Limit == 12
		})).Return([]product.Product{}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		page, err := svc.ListProducts(context.Background(), "", "", -5, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 0, page.TotalPages)
		assert.NotNil(t, page.Products)
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("keeps stored values for fields left unset", func(t *testing.T) {
		repo := &mockProductRepo{}
		svc := MustNewProductService(WithProductRepository(repo))

		stored := product.Product{
			ID:          4,
			Name:        "Desk Lamp",
			Description: "Warm white",
			PriceCents:  3500,
			Category:    "lighting",
			InStock:     true,
		}
		repo.On("GetByID", mock.Anything, int64(4)).Return(stored, nil)

		newPrice := int64(2900)
		merged := stored
		merged.PriceCents = newPrice
		repo.On("Update", mock.Anything, merged).Return(merged, nil)

		got, err := svc.UpdateProduct(context.Background(), 4, ProductUpdate{PriceCents: &newPrice})

		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp", got.Name)
		assert.Equal(t, newPrice, got.PriceCents)
		repo.AssertExpectations(t)
	})
}
