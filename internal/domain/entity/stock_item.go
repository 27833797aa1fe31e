package entity

import "time"

// StockItem representa un repuesto en el inventario de una sucursal.
// Quantity nunca puede observarse ni persistirse como negativa; la mutan
// únicamente los ajustes directos de stock y el motor de reconciliación.
type StockItem struct {
	ID        string
	BranchID  string
	Name      string
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
