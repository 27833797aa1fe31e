package repository

import "github.com/jhoicas/Reparaciones-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar repuestos.
// Usado dentro de transacciones para garantizar consistencia.
// GetByID y GetForUpdate devuelven (nil, nil) si el repuesto no existe.
type StockRepository interface {
	GetByID(id string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.StockItem, error)
	// UpdateQuantity fija la cantidad; rechaza valores negativos (segunda
	// guarda, redundante con la validación del motor de reconciliación).
	UpdateQuantity(id string, quantity int64) error
	Create(item *entity.StockItem) error
	Update(item *entity.StockItem) error
	Delete(id string) error
	ListByBranch(branchID string) ([]*entity.StockItem, error)
}
