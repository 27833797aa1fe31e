package repository

import "github.com/shopspring/decimal"

// DashboardStats agregados globales para la pantalla principal.
type DashboardStats struct {
	TotalRevenue      decimal.Decimal
	TotalRepairs      int64
	CompletedRepairs  int64
	InProgressRepairs int64
	Branches          int64
}

// BranchSummary resumen por sucursal (órdenes y repuestos).
type BranchSummary struct {
	BranchID   string
	BranchName string
	Jobs       int64
	StockItems int64
	StockUnits int64
}

// LowStockItem repuesto por debajo del umbral de alerta.
type LowStockItem struct {
	StockID    string
	BranchID   string
	BranchName string
	Name       string
	Quantity   int64
}

// DashboardRepository define el puerto de lectura para la proyección del
// dashboard. Solo lectura: puede estar arbitrariamente desfasada respecto a
// las lecturas transaccionales del motor de reconciliación y nunca se usa
// para decidir un commit.
type DashboardRepository interface {
	Stats() (*DashboardStats, error)
	BranchSummaries() ([]*BranchSummary, error)
	LowStock(threshold int64) ([]*LowStockItem, error)
}
