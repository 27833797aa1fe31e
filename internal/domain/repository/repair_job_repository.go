package repository

import "github.com/jhoicas/Reparaciones-api/internal/domain/entity"

// RepairJobRepository define el puerto de persistencia para órdenes de
// reparación. GetByID devuelve (nil, nil) si la orden no existe.
type RepairJobRepository interface {
	Create(job *entity.RepairJob) error
	GetByID(id string) (*entity.RepairJob, error)
	Update(job *entity.RepairJob) error
	UpdateStatus(id, status string) error
	Delete(id string) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.RepairJob, error)
	ListRecent(limit int) ([]*entity.RepairJob, error)
}
