package usecase

import (
	"github.com/jhoicas/Reparaciones-api/internal/application/dto"
	"github.com/jhoicas/Reparaciones-api/internal/domain/entity"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

// RepairListUseCase listados de solo lectura de órdenes de reparación para
// las pantallas (recientes y por sucursal). Las mutaciones viven en el motor
// de reconciliación, no aquí.
type RepairListUseCase struct {
	repo repository.RepairJobRepository
}

// NewRepairListUseCase construye el caso de uso.
func NewRepairListUseCase(repo repository.RepairJobRepository) *RepairListUseCase {
	return &RepairListUseCase{repo: repo}
}

// ListByBranch órdenes de una sucursal, más recientes primero.
func (uc *RepairListUseCase) ListByBranch(branchID string, page dto.PageRequest) (*dto.RepairJobListResponse, error) {
	page.DefaultPage()
	jobs, err := uc.repo.ListByBranch(branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toJobListResponse(jobs), nil
}

// ListRecent últimas órdenes de todas las sucursales (pantalla principal).
func (uc *RepairListUseCase) ListRecent(limit int) (*dto.RepairJobListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	jobs, err := uc.repo.ListRecent(limit)
	if err != nil {
		return nil, err
	}
	return toJobListResponse(jobs), nil
}

func toJobListResponse(jobs []*entity.RepairJob) *dto.RepairJobListResponse {
	out := make([]dto.RepairJobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, *ToRepairJobResponse(j))
	}
	return &dto.RepairJobListResponse{Jobs: out, Total: len(out)}
}

// ToRepairJobResponse mapea la entidad al DTO de respuesta. Lo comparten los
// handlers de lectura y el de submit.
func ToRepairJobResponse(j *entity.RepairJob) *dto.RepairJobResponse {
	used := make([]dto.UsedItemResponse, 0, len(j.ItemsUsed))
	for _, it := range j.ItemsUsed {
		used = append(used, dto.UsedItemResponse{StockID: it.StockID, Name: it.Name, Quantity: it.Quantity})
	}
	return &dto.RepairJobResponse{
		ID:                     j.ID,
		BranchID:               j.BranchID,
		CustomerName:           j.CustomerName,
		PhoneModel:             j.PhoneModel,
		Description:            j.Description,
		TechnicianName:         j.TechnicianName,
		DateReceived:           j.DateReceived,
		ExpectedCompletionDate: j.ExpectedCompletionDate,
		Status:                 j.Status,
		UnderWarranty:          j.UnderWarranty,
		Price:                  j.Price,
		ItemsUsed:              used,
		CreatedAt:              j.CreatedAt,
	}
}
