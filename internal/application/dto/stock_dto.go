package dto

import "time"

// CreateStockItemRequest alta de un repuesto con su cantidad inicial.
type CreateStockItemRequest struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// UpdateStockItemRequest ajuste directo de un repuesto (renombrar y/o fijar
// cantidad). Los ajustes directos no pasan por el motor de reconciliación.
type UpdateStockItemRequest struct {
	Name     *string `json:"name"`
	Quantity *int64  `json:"quantity"`
}

// StockItemResponse repuesto en respuestas.
type StockItemResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branchId"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockListResponse inventario de una sucursal.
type StockListResponse struct {
	Items []StockItemResponse `json:"items"`
	Total int                 `json:"total"`
}
