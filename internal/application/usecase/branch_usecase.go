package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Reparaciones-api/internal/application/dto"
	"github.com/jhoicas/Reparaciones-api/internal/domain"
	"github.com/jhoicas/Reparaciones-api/internal/domain/entity"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
)

// BranchUseCase casos de uso para sucursales: alta y listado. Las sucursales
// son inmutables después de crearse y nunca se borran desde aquí.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una nueva sucursal.
func (uc *BranchUseCase) Create(in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sucursal por ID.
func (uc *BranchUseCase) GetByID(id string) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, nil
	}
	return toBranchResponse(branch), nil
}

// List lista todas las sucursales.
func (uc *BranchUseCase) List() (*dto.BranchListResponse, error) {
	branches, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{Branches: out, Total: len(out)}, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}
}
