package orderitem

// QueryOrderItemsModel represents filter parameters for querying order items
type QueryOrderItemsModel struct {
	OrderIds []int64 `json:"orderIds,omitempty"`
}
