package reconcile

import (
	"context"

	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre la escritura de la
// orden y todas las escrituras de stock: los lectores nunca observan un estado
// intermedio.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		jobRepo repository.RepairJobRepository,
		stockRepo repository.StockRepository,
	) error) error
}
