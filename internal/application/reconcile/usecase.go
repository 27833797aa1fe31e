package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reparaciones-api/internal/domain"
	"github.com/jhoicas/Reparaciones-api/internal/domain/entity"
	domreconcile "github.com/jhoicas/Reparaciones-api/internal/domain/reconcile"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
	"github.com/jhoicas/Reparaciones-api/internal/metrics"
	"github.com/jhoicas/Reparaciones-api/pkg/logger"
)

// maxAttempts límite de reintentos ante conflictos de serialización antes de
// rendirse con ErrConcurrencyConflict.
const maxAttempts = 5

// UseCase es el motor de reconciliación: crea, edita, completa y borra
// órdenes de reparación ajustando atómicamente el stock que consumen.
// Toda mutación de cantidades pasa por una única transacción SQL que bloquea
// las filas afectadas (SELECT FOR UPDATE) en orden de StockID, valida
// suficiencia y recién entonces escribe. Commit todo-o-nada.
type UseCase struct {
	txRunner   TxRunner
	branchRepo repository.BranchRepository
	jobRepo    repository.RepairJobRepository
	log        *logger.Logger
}

// NewUseCase construye el motor. jobRepo es la vista fuera de transacción
// (lecturas y el cambio de estado, que no toca stock).
func NewUseCase(txRunner TxRunner, branchRepo repository.BranchRepository, jobRepo repository.RepairJobRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, branchRepo: branchRepo, jobRepo: jobRepo, log: log}
}

// ItemUse consumo solicitado contra un repuesto.
type ItemUse struct {
	StockID  string
	Quantity int64
}

// SubmitJobInput entrada para crear (JobID vacío) o editar una orden.
// ItemsUsed describe el estado deseado completo, no un diff.
type SubmitJobInput struct {
	JobID                  string
	BranchID               string
	CustomerName           string
	PhoneModel             string
	Description            string
	TechnicianName         string
	DateReceived           string
	ExpectedCompletionDate string
	Status                 string
	UnderWarranty          bool
	Price                  decimal.Decimal
	ItemsUsed              []ItemUse
}

// SubmitJob crea o edita una orden reconciliando los deltas de stock.
//
// Flujo: validación local (sin tocar el almacén) → transacción que bloquea
// cada repuesto afectado, valida existencia y suficiencia contra la cantidad
// actual, y escribe orden + cantidades como una unidad. Ante un conflicto de
// serialización se reintenta con backoff exponencial acotado.
func (uc *UseCase) SubmitJob(ctx context.Context, input SubmitJobInput) (*entity.RepairJob, error) {
	if err := uc.validate(&input); err != nil {
		return nil, err
	}
	if input.JobID == "" {
		branch, err := uc.branchRepo.GetByID(input.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.ErrNotFound
		}
	}

	requested := make([]domreconcile.UsoItem, 0, len(input.ItemsUsed))
	for _, it := range input.ItemsUsed {
		requested = append(requested, domreconcile.UsoItem{StockID: it.StockID, Quantity: it.Quantity})
	}
	newItems := domreconcile.Normalize(requested)
	newMap := domreconcile.ToMap(newItems)

	var result *entity.RepairJob
	err := uc.withRetry(ctx, "submit", func() error {
		result = nil
		return uc.txRunner.Run(ctx, func(jobRepo repository.RepairJobRepository, stockRepo repository.StockRepository) error {
			var existing *entity.RepairJob
			if input.JobID != "" {
				var err error
				existing, err = jobRepo.GetByID(input.JobID)
				if err != nil {
					return err
				}
				if existing == nil {
					return domain.ErrNotFound
				}
			}

			oldMap := map[string]int64{}
			if existing != nil {
				for _, it := range existing.ItemsUsed {
					oldMap[it.StockID] += it.Quantity
				}
			}

			// La salida de ComputeDeltas está ordenada por StockID: ese orden
			// fija el orden de bloqueo de filas y evita deadlocks entre
			// reconciliaciones concurrentes.
			deltas := domreconcile.ComputeDeltas(oldMap, newMap)

			staged := make(map[string]int64, len(deltas))
			names := make(map[string]string, len(deltas))
			for _, d := range deltas {
				cur, err := stockRepo.GetForUpdate(d.StockID)
				if err != nil {
					return err
				}
				if cur == nil {
					return &domain.StockItemNotFoundError{StockID: d.StockID}
				}
				if existing != nil && cur.BranchID != existing.BranchID {
					return &domain.StockItemNotFoundError{StockID: d.StockID}
				}
				if existing == nil && cur.BranchID != input.BranchID {
					return &domain.StockItemNotFoundError{StockID: d.StockID}
				}
				if d.Delta < 0 && cur.Quantity < -d.Delta {
					metrics.InsufficientStock.Inc()
					return &domain.InsufficientStockError{
						ItemName:  cur.Name,
						Requested: -d.Delta,
						Available: cur.Quantity,
					}
				}
				staged[d.StockID] = cur.Quantity + d.Delta
				names[d.StockID] = cur.Name
			}

			// Todo validado: armar itemsUsed con la foto del nombre actual.
			used := make([]entity.UsedItem, 0, len(newItems))
			for _, it := range newItems {
				used = append(used, entity.UsedItem{StockID: it.StockID, Name: names[it.StockID], Quantity: it.Quantity})
			}

			var job *entity.RepairJob
			if existing == nil {
				job = &entity.RepairJob{
					ID:                     uuid.New().String(),
					BranchID:               input.BranchID,
					CustomerName:           input.CustomerName,
					PhoneModel:             input.PhoneModel,
					Description:            input.Description,
					TechnicianName:         input.TechnicianName,
					DateReceived:           input.DateReceived,
					ExpectedCompletionDate: input.ExpectedCompletionDate,
					Status:                 input.Status,
					UnderWarranty:          input.UnderWarranty,
					Price:                  input.Price,
					ItemsUsed:              used,
					CreatedAt:              time.Now(),
				}
				if err := jobRepo.Create(job); err != nil {
					return err
				}
			} else {
				job = existing
				job.CustomerName = input.CustomerName
				job.PhoneModel = input.PhoneModel
				job.Description = input.Description
				job.TechnicianName = input.TechnicianName
				job.DateReceived = input.DateReceived
				job.ExpectedCompletionDate = input.ExpectedCompletionDate
				job.Status = input.Status
				job.UnderWarranty = input.UnderWarranty
				job.Price = input.Price
				job.ItemsUsed = used
				if err := jobRepo.Update(job); err != nil {
					return err
				}
			}

			for _, d := range deltas {
				if err := stockRepo.UpdateQuantity(d.StockID, staged[d.StockID]); err != nil {
					return err
				}
			}
			result = job
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteJob borra una orden devolviendo al stock la totalidad de su consumo.
// La reversión nunca puede fallar por insuficiencia (los deltas son ≥ 0). Si
// un repuesto referenciado ya no existe, su restauración se omite (hueco de
// restauración: se registra y se cuenta, el borrado igual se confirma).
func (uc *UseCase) DeleteJob(ctx context.Context, jobID string) error {
	if jobID == "" {
		return domain.ErrInvalidInput
	}
	return uc.withRetry(ctx, "delete", func() error {
		return uc.txRunner.Run(ctx, func(jobRepo repository.RepairJobRepository, stockRepo repository.StockRepository) error {
			job, err := jobRepo.GetByID(jobID)
			if err != nil {
				return err
			}
			if job == nil {
				return domain.ErrNotFound
			}

			oldMap := map[string]int64{}
			for _, it := range job.ItemsUsed {
				oldMap[it.StockID] += it.Quantity
			}
			deltas := domreconcile.ComputeDeltas(oldMap, nil)
			for _, d := range deltas {
				cur, err := stockRepo.GetForUpdate(d.StockID)
				if err != nil {
					return err
				}
				if cur == nil {
					metrics.RestorationGaps.Inc()
					uc.log.Warn().
						Str("job_id", job.ID).
						Str("stock_id", d.StockID).
						Int64("quantity", d.Delta).
						Msg("restauración omitida: el repuesto ya no existe")
					continue
				}
				if err := stockRepo.UpdateQuantity(d.StockID, cur.Quantity+d.Delta); err != nil {
					return err
				}
			}
			return jobRepo.Delete(job.ID)
		})
	})
}

// CompleteJob marca una orden como completada. No toca stock; sobre los
// campos no-stock gana el último que escribe (comportamiento aceptado).
func (uc *UseCase) CompleteJob(ctx context.Context, jobID string) error {
	job, err := uc.jobRepo.GetByID(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return domain.ErrNotFound
	}
	return uc.jobRepo.UpdateStatus(jobID, entity.JobStatusCompleted)
}

// GetJob devuelve una orden por ID (lectura fuera de transacción).
func (uc *UseCase) GetJob(_ context.Context, jobID string) (*entity.RepairJob, error) {
	return uc.jobRepo.GetByID(jobID)
}

// validate aplica las reglas locales previas a cualquier transacción.
func (uc *UseCase) validate(input *SubmitJobInput) error {
	if input.JobID == "" && input.BranchID == "" {
		return domain.ErrInvalidInput
	}
	if input.CustomerName == "" || input.Description == "" {
		return domain.ErrInvalidInput
	}
	if input.Price.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	switch input.Status {
	case "":
		input.Status = entity.JobStatusInProgress
	case entity.JobStatusInProgress, entity.JobStatusCompleted:
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// withRetry ejecuta fn reintentando solo conflictos de concurrencia
// (serialización/deadlock traducidos a ErrConcurrencyConflict por el
// TxRunner), con backoff exponencial y tope de intentos.
func (uc *UseCase) withRetry(ctx context.Context, op string, fn func() error) error {
	attempt := func() error {
		metrics.ReconcileAttempts.WithLabelValues(op).Inc()
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			metrics.ReconcileConflicts.Inc()
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 20 * time.Millisecond
	bo.MaxInterval = 250 * time.Millisecond
	return backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx))
}
