package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados de solo lectura para la pantalla principal.
// Siempre contra el pool: esta proyección puede ir desfasada respecto a las
// lecturas transaccionales del motor y jamás decide un commit.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador de lecturas del dashboard.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// Stats ingresos (órdenes completadas) y conteos globales.
func (r *DashboardRepo) Stats() (*repository.DashboardStats, error) {
	query := `
		SELECT
			COALESCE(SUM(price) FILTER (WHERE status = 'completed'), 0) AS total_revenue,
			COUNT(*)                                                    AS total_repairs,
			COUNT(*) FILTER (WHERE status = 'completed')                AS completed,
			COUNT(*) FILTER (WHERE status = 'in_progress')              AS in_progress,
			(SELECT COUNT(*) FROM branches)                             AS branches
		FROM repair_jobs`
	var s repository.DashboardStats
	err := r.pool.QueryRow(context.Background(), query).Scan(
		&s.TotalRevenue, &s.TotalRepairs, &s.CompletedRepairs, &s.InProgressRepairs, &s.Branches,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &s, nil
}

// BranchSummaries órdenes, repuestos y unidades por sucursal.
func (r *DashboardRepo) BranchSummaries() ([]*repository.BranchSummary, error) {
	query := `
		SELECT
			b.id,
			b.name,
			(SELECT COUNT(*) FROM repair_jobs j WHERE j.branch_id = b.id)           AS jobs,
			(SELECT COUNT(*) FROM stock_items s WHERE s.branch_id = b.id)           AS stock_items,
			(SELECT COALESCE(SUM(quantity), 0) FROM stock_items s WHERE s.branch_id = b.id) AS stock_units
		FROM branches b
		ORDER BY b.name`
	rows, err := r.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("branch summaries: %w", err)
	}
	defer rows.Close()

	var out []*repository.BranchSummary
	for rows.Next() {
		var s repository.BranchSummary
		if err := rows.Scan(&s.BranchID, &s.BranchName, &s.Jobs, &s.StockItems, &s.StockUnits); err != nil {
			return nil, fmt.Errorf("scan branch summary: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// LowStock repuestos con cantidad por debajo o igual al umbral.
func (r *DashboardRepo) LowStock(threshold int64) ([]*repository.LowStockItem, error) {
	query := `
		SELECT s.id, s.branch_id, b.name, s.name, s.quantity
		FROM stock_items s
		JOIN branches b ON b.id = s.branch_id
		WHERE s.quantity <= $1
		ORDER BY s.quantity, s.name`
	rows, err := r.pool.Query(context.Background(), query, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	var out []*repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.StockID, &it.BranchID, &it.BranchName, &it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}
