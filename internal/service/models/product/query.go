package product

// Sort orders supported by the catalog listing.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
	SortNewest    = "newest"
)

// QueryProductsModel represents filter parameters for querying products
type QueryProductsModel struct {
	Ids    []int64 `json:"ids,omitempty"`
	Search string  `json:"search,omitempty"`
	SortBy string  `json:"sortBy,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}
