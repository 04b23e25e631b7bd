package products

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/webshop-labs/storefront/internal/dal/repositories"
	"github.com/webshop-labs/storefront/internal/service/models/product"
	"github.com/webshop-labs/storefront/internal/service/services/productsvc"
	"github.com/webshop-labs/storefront/internal/transport/http/response"
)

// service is an interface for the service layer.
type service interface {
	ListProducts(ctx context.Context, search, sortBy string, page, limit int) (productsvc.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (product.Product, error)
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	UpdateProduct(ctx context.Context, id int64, upd productsvc.ProductUpdate) (product.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type listProductsRequest struct {
	Search string `schema:"search,omitempty"`
	SortBy string `schema:"sortBy,omitempty"`
	Page   int    `schema:"page,omitempty"`
	Limit  int    `schema:"limit,omitempty"`
}

// ListProducts handles the catalog listing request.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &listProductsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request", "error", err)

		return
	}

	page, err := service.ListProducts(r.Context(), query.Search, query.SortBy, query.Page, query.Limit)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error listing products", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, page)
}

// GetProduct handles the single product request.
func GetProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid product id")

		return
	}

	p, err := service.GetProduct(r.Context(), id)
	if err != nil {
		var notFound *repositories.NotFoundError
		if errors.As(err, &notFound) {
			response.WriteError(w, http.StatusNotFound, "not_found", "Product not found")

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error getting product", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, p)
}

// createProductRequest represents a create product request.
type createProductRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"  validate:"gte=0"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	InStock     bool   `json:"inStock"`
}

// CreateProduct handles the admin create product request.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request body for product creation", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

		return
	}

	created, err := service.CreateProduct(r.Context(), product.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.Image,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error creating product", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusCreated, created)
}

// updateProductRequest represents a partial product update; absent fields
// keep their stored values.
type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	InStock     *bool   `json:"inStock"`
}

// UpdateProduct handles the admin update product request.
func UpdateProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid product id")

		return
	}

	req := updateProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		slog.Error("Error decoding request body for product update", "error", err)

		return
	}

	updated, err := service.UpdateProduct(r.Context(), id, productsvc.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.Image,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		var notFound *repositories.NotFoundError
		if errors.As(err, &notFound) {
			response.WriteError(w, http.StatusNotFound, "not_found", "Product not found")

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error updating product", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles the admin delete product request.
func DeleteProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid product id")

		return
	}

	if err := service.DeleteProduct(r.Context(), id); err != nil {
		var notFound *repositories.NotFoundError
		if errors.As(err, &notFound) {
			response.WriteError(w, http.StatusNotFound, "not_found", "Product not found")

			return
		}

		response.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		slog.Error("Error deleting product", "error", err)

		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}
