package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Reparaciones-api/internal/application/dto"
	"github.com/jhoicas/Reparaciones-api/internal/domain"
	"github.com/jhoicas/Reparaciones-api/internal/domain/entity"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

// StockUseCase ajustes directos de inventario: alta, fijar cantidad,
// renombrar, borrar y listar por sucursal. Los ajustes directos NO pasan por
// el motor de reconciliación; son la otra vía legítima de mutación de
// Quantity. La regla "nunca negativo" se mantiene también aquí.
type StockUseCase struct {
	repo       repository.StockRepository
	branchRepo repository.BranchRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockRepository, branchRepo repository.BranchRepository) *StockUseCase {
	return &StockUseCase{repo: repo, branchRepo: branchRepo}
}

// normalizeName deja el nombre en forma NFC y sin espacios sobrantes; la
// forma compuesta evita duplicados visualmente idénticos con acentos
// escritos distinto.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Create da de alta un repuesto con su cantidad inicial.
func (uc *StockUseCase) Create(branchID string, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	name := normalizeName(in.Name)
	if name == "" || in.Quantity < 0 || branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	item := &entity.StockItem{
		ID:        uuid.New().String(),
		BranchID:  branchID,
		Name:      name,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// Update ajusta un repuesto: renombrar y/o fijar cantidad. El nombre nuevo no
// se propaga a las fotos guardadas en órdenes existentes (obsolescencia
// intencional documentada).
func (uc *StockUseCase) Update(id string, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.Quantity = *in.Quantity
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// Delete elimina un repuesto. Las órdenes que lo referencian conservan su
// foto; el hueco de restauración que esto puede dejar al borrarlas es un caso
// borde aceptado que el motor registra.
func (uc *StockUseCase) Delete(id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// ListByBranch inventario de una sucursal.
func (uc *StockUseCase) ListByBranch(branchID string) (*dto.StockListResponse, error) {
	items, err := uc.repo.ListByBranch(branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toStockItemResponse(it))
	}
	return &dto.StockListResponse{Items: out, Total: len(out)}, nil
}

func toStockItemResponse(it *entity.StockItem) *dto.StockItemResponse {
	return &dto.StockItemResponse{
		ID:        it.ID,
		BranchID:  it.BranchID,
		Name:      it.Name,
		Quantity:  it.Quantity,
		UpdatedAt: it.UpdatedAt,
	}
}
