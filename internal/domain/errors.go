package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrStockItemNotFound   = errors.New("repuesto no encontrado")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
)

// InsufficientStockError indica que el consumo neto solicitado excede la
// cantidad disponible de un repuesto. Aborta la transacción completa.
type InsufficientStockError struct {
	ItemName  string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %q: solicitado %d, disponible %d", e.ItemName, e.Requested, e.Available)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StockItemNotFoundError indica que un stockId referenciado ya no existe en el
// inventario al momento de la transacción.
type StockItemNotFoundError struct {
	StockID string
}

func (e *StockItemNotFoundError) Error() string {
	return fmt.Sprintf("repuesto %s no existe en el inventario", e.StockID)
}

// Is permite errors.Is(err, ErrStockItemNotFound).
func (e *StockItemNotFoundError) Is(target error) bool {
	return target == ErrStockItemNotFound
}
