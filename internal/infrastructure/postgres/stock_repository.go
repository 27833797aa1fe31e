package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Reparaciones-api/internal/domain"
	"github.com/jhoicas/Reparaciones-api/internal/domain/entity"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de repuestos. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, branch_id, name, quantity, created_at, updated_at`

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(&s.ID, &s.BranchID, &s.Name, &s.Quantity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene un repuesto por ID. (nil, nil) si no existe.
func (r *StockRepo) GetByID(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE id = $1`
	item, err := scanStockItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene un repuesto y bloquea la fila para update (SELECT FOR UPDATE).
// El motor de reconciliación bloquea en orden de StockID; este método no
// impone orden, solo el bloqueo.
func (r *StockRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	item, err := scanStockItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return item, nil
}

// UpdateQuantity fija la cantidad de un repuesto. Segunda guarda contra
// negativos, redundante con la validación del motor y con el CHECK de la
// tabla.
func (r *StockRepo) UpdateQuantity(id string, quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("update stock quantity %s: %w", id, domain.ErrInvalidInput)
	}
	query := `UPDATE stock_items SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock quantity: %w", &domain.StockItemNotFoundError{StockID: id})
	}
	return nil
}

// Create persiste un nuevo repuesto.
func (r *StockRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, branch_id, name, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.BranchID, item.Name, item.Quantity, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// Update actualiza nombre y cantidad de un repuesto (ajuste directo).
func (r *StockRepo) Update(item *entity.StockItem) error {
	query := `UPDATE stock_items SET name = $2, quantity = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.Name, item.Quantity, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update stock item: %w", err)
	}
	return nil
}

// Delete elimina un repuesto. Las órdenes que lo referencian conservan su
// foto en items_used; el posible hueco de restauración lo maneja el motor.
func (r *StockRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	return nil
}

// ListByBranch inventario de una sucursal ordenado por nombre.
func (r *StockRepo) ListByBranch(branchID string) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE branch_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockItem
	for rows.Next() {
		var s entity.StockItem
		if err := rows.Scan(&s.ID, &s.BranchID, &s.Name, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
