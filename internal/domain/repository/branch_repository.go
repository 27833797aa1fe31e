package repository

import "github.com/jhoicas/Reparaciones-api/internal/domain/entity"

// BranchRepository define el puerto de persistencia para sucursales (DIP).
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	List() ([]*entity.Branch, error)
}
