package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse agregados globales para la pantalla principal.
type DashboardStatsResponse struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalRepairs      int64           `json:"totalRepairs"`
	CompletedRepairs  int64           `json:"completedRepairs"`
	InProgressRepairs int64           `json:"inProgressRepairs"`
	Branches          int64           `json:"branches"`
}

// BranchSummaryDTO resumen por sucursal.
type BranchSummaryDTO struct {
	BranchID   string `json:"branchId"`
	BranchName string `json:"branchName"`
	Jobs       int64  `json:"jobs"`
	StockItems int64  `json:"stockItems"`
	StockUnits int64  `json:"stockUnits"`
}

// LowStockItemDTO repuesto por debajo del umbral de alerta.
type LowStockItemDTO struct {
	StockID    string `json:"stockId"`
	BranchID   string `json:"branchId"`
	BranchName string `json:"branchName"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
}
