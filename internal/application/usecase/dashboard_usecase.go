package usecase

import (
	"github.com/jhoicas/Reparaciones-api/internal/application/dto"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

// lowStockThreshold umbral de alerta de la pantalla principal (≤ 5 unidades
// se muestra en rojo en el tablero original).
const lowStockThreshold = 5

// DashboardUseCase proyección de solo lectura para la pantalla principal.
// Puede estar desfasada respecto a las lecturas transaccionales del motor;
// nunca se usa para decidir un commit.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Stats agregados globales: ingresos de órdenes completadas y conteos.
func (uc *DashboardUseCase) Stats() (*dto.DashboardStatsResponse, error) {
	stats, err := uc.repo.Stats()
	if err != nil {
		return nil, err
	}
	return &dto.DashboardStatsResponse{
		TotalRevenue:      stats.TotalRevenue,
		TotalRepairs:      stats.TotalRepairs,
		CompletedRepairs:  stats.CompletedRepairs,
		InProgressRepairs: stats.InProgressRepairs,
		Branches:          stats.Branches,
	}, nil
}

// BranchSummaries resumen por sucursal (órdenes, repuestos, unidades).
func (uc *DashboardUseCase) BranchSummaries() ([]dto.BranchSummaryDTO, error) {
	rows, err := uc.repo.BranchSummaries()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchSummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BranchSummaryDTO{
			BranchID:   r.BranchID,
			BranchName: r.BranchName,
			Jobs:       r.Jobs,
			StockItems: r.StockItems,
			StockUnits: r.StockUnits,
		})
	}
	return out, nil
}

// LowStock repuestos por debajo del umbral de alerta.
func (uc *DashboardUseCase) LowStock() ([]dto.LowStockItemDTO, error) {
	rows, err := uc.repo.LowStock(lowStockThreshold)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockItemDTO{
			StockID:    r.StockID,
			BranchID:   r.BranchID,
			BranchName: r.BranchName,
			Name:       r.Name,
			Quantity:   r.Quantity,
		})
	}
	return out, nil
}
