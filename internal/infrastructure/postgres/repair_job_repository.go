package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Reparaciones-api/internal/domain/entity"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

var _ repository.RepairJobRepository = (*RepairJobRepo)(nil)

// RepairJobRepo implementación sobre PostgreSQL (usable con pool o tx).
// items_used se persiste como JSONB con la misma forma del documento
// original ({stockId, name, quantity}): la orden se escribe en una sola fila
// y queda atómica con las filas de stock dentro de la misma transacción.
type RepairJobRepo struct {
	q Querier
}

// NewRepairJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRepairJobRepository(q Querier) *RepairJobRepo {
	return &RepairJobRepo{q: q}
}

const jobColumns = `id, branch_id, customer_name, phone_model, description, technician_name,
		date_received, expected_completion_date, status, under_warranty, price, items_used, created_at`

// Create persiste una nueva orden de reparación.
func (r *RepairJobRepo) Create(job *entity.RepairJob) error {
	items, err := json.Marshal(job.ItemsUsed)
	if err != nil {
		return fmt.Errorf("marshal items_used: %w", err)
	}
	query := `
		INSERT INTO repair_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13)`
	_, err = r.q.Exec(context.Background(), query,
		job.ID, job.BranchID, job.CustomerName, job.PhoneModel, job.Description, job.TechnicianName,
		job.DateReceived, job.ExpectedCompletionDate, job.Status, job.UnderWarranty, job.Price,
		string(items), job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert repair job: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. (nil, nil) si no existe.
func (r *RepairJobRepo) GetByID(id string) (*entity.RepairJob, error) {
	query := `SELECT ` + jobColumns + ` FROM repair_jobs WHERE id = $1`
	job, err := scanRepairJob(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get repair job: %w", err)
	}
	return job, nil
}

// Update reescribe los campos mutables de la orden, items_used incluido.
func (r *RepairJobRepo) Update(job *entity.RepairJob) error {
	items, err := json.Marshal(job.ItemsUsed)
	if err != nil {
		return fmt.Errorf("marshal items_used: %w", err)
	}
	query := `
		UPDATE repair_jobs SET
			customer_name = $2, phone_model = $3, description = $4, technician_name = $5,
			date_received = $6, expected_completion_date = $7, status = $8,
			under_warranty = $9, price = $10, items_used = $11::jsonb
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		job.ID, job.CustomerName, job.PhoneModel, job.Description, job.TechnicianName,
		job.DateReceived, job.ExpectedCompletionDate, job.Status, job.UnderWarranty,
		job.Price, string(items),
	)
	if err != nil {
		return fmt.Errorf("update repair job: %w", err)
	}
	return nil
}

// UpdateStatus cambia solo el estado (completar orden). No toca stock ni
// items_used; sobre los campos no-stock gana el último que escribe.
func (r *RepairJobRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(), `UPDATE repair_jobs SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update repair job status: %w", err)
	}
	return nil
}

// Delete elimina una orden.
func (r *RepairJobRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM repair_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete repair job: %w", err)
	}
	return nil
}

// ListByBranch órdenes de una sucursal, más recientes primero.
func (r *RepairJobRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.RepairJob, error) {
	query := `SELECT ` + jobColumns + ` FROM repair_jobs
		WHERE branch_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, branchID, limit, offset)
}

// ListRecent últimas órdenes de todas las sucursales.
func (r *RepairJobRepo) ListRecent(limit int) ([]*entity.RepairJob, error) {
	query := `SELECT ` + jobColumns + ` FROM repair_jobs ORDER BY created_at DESC LIMIT $1`
	return r.list(query, limit)
}

func (r *RepairJobRepo) list(query string, args ...any) ([]*entity.RepairJob, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list repair jobs: %w", err)
	}
	defer rows.Close()

	var out []*entity.RepairJob
	for rows.Next() {
		job, err := scanRepairJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan repair job: %w", err)
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func scanRepairJob(row pgx.Row) (*entity.RepairJob, error) {
	var j entity.RepairJob
	var items []byte
	err := row.Scan(
		&j.ID, &j.BranchID, &j.CustomerName, &j.PhoneModel, &j.Description, &j.TechnicianName,
		&j.DateReceived, &j.ExpectedCompletionDate, &j.Status, &j.UnderWarranty, &j.Price,
		&items, &j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &j.ItemsUsed); err != nil {
			return nil, fmt.Errorf("unmarshal items_used: %w", err)
		}
	}
	return &j, nil
}
