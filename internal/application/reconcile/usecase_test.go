package reconcile_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reparaciones-api/internal/application/reconcile"
	"github.com/jhoicas/Reparaciones-api/internal/domain"
	"github.com/jhoicas/Reparaciones-api/internal/domain/entity"
	"github.com/jhoicas/Reparaciones-api/internal/domain/repository"
	"github.com/jhoicas/Reparaciones-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// El store emula la semántica transaccional del adaptador PostgreSQL con
// copy-on-write: cada Run opera sobre una copia y solo al terminar sin error
// se publica. Así los tests de atomicidad verifican la propiedad de verdad
// (estado byte a byte idéntico tras un fallo) y no solo el orden interno de
// escrituras del motor.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	stock    map[string]*entity.StockItem
	jobs     map[string]*entity.RepairJob
	branches map[string]*entity.Branch
}

func newMemStore() *memStore {
	return &memStore{
		stock:    map[string]*entity.StockItem{},
		jobs:     map[string]*entity.RepairJob{},
		branches: map[string]*entity.Branch{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, it := range s.stock {
		cp := *it
		c.stock[id] = &cp
	}
	for id, j := range s.jobs {
		cp := *j
		cp.ItemsUsed = append([]entity.UsedItem(nil), j.ItemsUsed...)
		c.jobs[id] = &cp
	}
	for id, b := range s.branches {
		cp := *b
		c.branches[id] = &cp
	}
	return c
}

type memStockRepo struct{ s *memStore }

func (r *memStockRepo) GetByID(id string) (*entity.StockItem, error) { return r.s.stock[id], nil }
func (r *memStockRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	return r.s.stock[id], nil
}
func (r *memStockRepo) UpdateQuantity(id string, quantity int64) error {
	if quantity < 0 {
		return domain.ErrInvalidInput
	}
	r.s.stock[id].Quantity = quantity
	return nil
}
func (r *memStockRepo) Create(item *entity.StockItem) error { r.s.stock[item.ID] = item; return nil }
func (r *memStockRepo) Update(item *entity.StockItem) error { r.s.stock[item.ID] = item; return nil }
func (r *memStockRepo) Delete(id string) error              { delete(r.s.stock, id); return nil }
func (r *memStockRepo) ListByBranch(branchID string) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, it := range r.s.stock {
		if it.BranchID == branchID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memJobRepo struct{ s *memStore }

func (r *memJobRepo) Create(job *entity.RepairJob) error { r.s.jobs[job.ID] = job; return nil }
func (r *memJobRepo) GetByID(id string) (*entity.RepairJob, error) {
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	cp.ItemsUsed = append([]entity.UsedItem(nil), j.ItemsUsed...)
	return &cp, nil
}
func (r *memJobRepo) Update(job *entity.RepairJob) error { r.s.jobs[job.ID] = job; return nil }
func (r *memJobRepo) UpdateStatus(id, status string) error {
	r.s.jobs[id].Status = status
	return nil
}
func (r *memJobRepo) Delete(id string) error { delete(r.s.jobs, id); return nil }
func (r *memJobRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.RepairJob, error) {
	return nil, nil
}
func (r *memJobRepo) ListRecent(limit int) ([]*entity.RepairJob, error) { return nil, nil }

type memBranchRepo struct{ s *memStore }

func (r *memBranchRepo) Create(b *entity.Branch) error          { r.s.branches[b.ID] = b; return nil }
func (r *memBranchRepo) GetByID(id string) (*entity.Branch, error) { return r.s.branches[id], nil }
func (r *memBranchRepo) List() ([]*entity.Branch, error)        { return nil, nil }

// memTxRunner publica la copia solo si fn termina sin error.
// conflicts > 0 simula fallos de serialización en los primeros intentos.
type memTxRunner struct {
	s         *memStore
	conflicts int
	runs      int
}

func (t *memTxRunner) Run(_ context.Context, fn func(repository.RepairJobRepository, repository.StockRepository) error) error {
	t.runs++
	if t.conflicts > 0 {
		t.conflicts--
		return domain.ErrConcurrencyConflict
	}
	work := t.s.clone()
	if err := fn(&memJobRepo{s: work}, &memStockRepo{s: work}); err != nil {
		return err
	}
	t.s.stock = work.stock
	t.s.jobs = work.jobs
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const branchID = "branch-1"

func newEngine(t *testing.T, s *memStore) (*reconcile.UseCase, *memTxRunner) {
	t.Helper()
	tx := &memTxRunner{s: s}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := reconcile.NewUseCase(tx, &memBranchRepo{s: s}, &memJobRepo{s: s}, log)
	return uc, tx
}

func seedStore(quantities map[string]int64) *memStore {
	s := newMemStore()
	s.branches[branchID] = &entity.Branch{ID: branchID, Name: "Sucursal Centro", CreatedAt: time.Now()}
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s.stock[id] = &entity.StockItem{ID: id, BranchID: branchID, Name: "Repuesto " + id, Quantity: quantities[id]}
	}
	return s
}

func submitInput(items ...reconcile.ItemUse) reconcile.SubmitJobInput {
	return reconcile.SubmitJobInput{
		BranchID:     branchID,
		CustomerName: "Somsak",
		PhoneModel:   "iPhone 14 Pro",
		Description:  "pantalla rota",
		Price:        decimal.NewFromInt(1500),
		ItemsUsed:    items,
	}
}

// totalUnits = stock + consumo de órdenes vivas: la ley de conservación.
func totalUnits(s *memStore) int64 {
	var sum int64
	for _, it := range s.stock {
		sum += it.Quantity
	}
	for _, j := range s.jobs {
		for _, u := range j.ItemsUsed {
			sum += u.Quantity
		}
	}
	return sum
}

func snapshot(s *memStore) map[string]int64 {
	out := map[string]int64{}
	for id, it := range s.stock {
		out[id] = it.Quantity
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitJob_CrearConsumeStock(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10, "B": 3})
	uc, _ := newEngine(t, s)

	before := totalUnits(s)
	job, err := uc.SubmitJob(context.Background(), submitInput(
		reconcile.ItemUse{StockID: "A", Quantity: 4},
		reconcile.ItemUse{StockID: "B", Quantity: 1},
	))

	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, int64(6), s.stock["A"].Quantity)
	assert.Equal(t, int64(2), s.stock["B"].Quantity)
	assert.Equal(t, entity.JobStatusInProgress, job.Status)
	assert.NotEmpty(t, job.ID)
	assert.False(t, job.CreatedAt.IsZero())
	// Foto del nombre al momento de usar
	assert.Equal(t, "Repuesto A", job.ItemsUsed[0].Name)
	assert.Equal(t, before, totalUnits(s), "la ley de conservación debe mantenerse")
}

func TestSubmitJob_CantidadExactaDejaCero(t *testing.T) {
	s := seedStore(map[string]int64{"A": 5})
	uc, _ := newEngine(t, s)

	_, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 5}))

	require.NoError(t, err)
	assert.Equal(t, int64(0), s.stock["A"].Quantity)
}

func TestSubmitJob_StockInsuficiente_SinEfectoParcial(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10, "B": 1})
	uc, _ := newEngine(t, s)
	before := snapshot(s)

	// B insuficiente: aunque A alcanza, nada debe escribirse.
	_, err := uc.SubmitJob(context.Background(), submitInput(
		reconcile.ItemUse{StockID: "A", Quantity: 4},
		reconcile.ItemUse{StockID: "B", Quantity: 2},
	))

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, "Repuesto B", insErr.ItemName)
	assert.Equal(t, int64(2), insErr.Requested)
	assert.Equal(t, int64(1), insErr.Available)
	assert.Equal(t, before, snapshot(s), "fallo atómico: el stock queda intacto")
	assert.Empty(t, s.jobs, "fallo atómico: la orden no se crea")
}

func TestSubmitJob_RepuestoInexistente(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	uc, _ := newEngine(t, s)
	before := snapshot(s)

	_, err := uc.SubmitJob(context.Background(), submitInput(
		reconcile.ItemUse{StockID: "A", Quantity: 1},
		reconcile.ItemUse{StockID: "Z", Quantity: 1},
	))

	require.ErrorIs(t, err, domain.ErrStockItemNotFound)
	var nfErr *domain.StockItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "Z", nfErr.StockID)
	assert.Equal(t, before, snapshot(s))
	assert.Empty(t, s.jobs)
}

func TestSubmitJob_RepuestoDeOtraSucursal(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	s.stock["X"] = &entity.StockItem{ID: "X", BranchID: "otra-sucursal", Name: "Repuesto X", Quantity: 9}
	uc, _ := newEngine(t, s)

	_, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "X", Quantity: 1}))

	require.ErrorIs(t, err, domain.ErrStockItemNotFound)
}

func TestSubmitJob_FiltraCantidadCeroYFusionaDuplicados(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(
		reconcile.ItemUse{StockID: "A", Quantity: 2},
		reconcile.ItemUse{StockID: "A", Quantity: 3},
		reconcile.ItemUse{StockID: "B", Quantity: 0}, // se descarta, B ni existe
	))

	require.NoError(t, err)
	require.Len(t, job.ItemsUsed, 1, "a lo sumo una entrada por stockId")
	assert.Equal(t, int64(5), job.ItemsUsed[0].Quantity)
	assert.Equal(t, int64(5), s.stock["A"].Quantity)
}

func TestSubmitJob_ValidacionLocal_NoAbreTransaccion(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	uc, tx := newEngine(t, s)

	cases := []reconcile.SubmitJobInput{
		{BranchID: branchID, CustomerName: "", Description: "x"},
		{BranchID: branchID, CustomerName: "x", Description: ""},
		{BranchID: "", CustomerName: "x", Description: "x"},
		{BranchID: branchID, CustomerName: "x", Description: "x", Price: decimal.NewFromInt(-1)},
		{BranchID: branchID, CustomerName: "x", Description: "x", Status: "paused"},
	}
	for _, in := range cases {
		_, err := uc.SubmitJob(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Zero(t, tx.runs, "la validación local no debe tocar el almacén")
}

func TestSubmitJob_SucursalInexistente(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	uc, _ := newEngine(t, s)

	in := submitInput(reconcile.ItemUse{StockID: "A", Quantity: 1})
	in.BranchID = "no-existe"
	_, err := uc.SubmitJob(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Editar
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitJob_EditarAumentaConsumo(t *testing.T) {
	s := seedStore(map[string]int64{"A": 15})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 5}))
	require.NoError(t, err)
	require.Equal(t, int64(10), s.stock["A"].Quantity)

	// {A:5} -> {A:8}: delta -3, quedan 7.
	in := submitInput(reconcile.ItemUse{StockID: "A", Quantity: 8})
	in.JobID = job.ID
	edited, err := uc.SubmitJob(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(7), s.stock["A"].Quantity)
	assert.Equal(t, int64(8), edited.ItemsUsed[0].Quantity)
	assert.Equal(t, job.ID, edited.ID)
}

func TestSubmitJob_EditarExcesivo_FallaYNoCambiaNada(t *testing.T) {
	s := seedStore(map[string]int64{"A": 15})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 5}))
	require.NoError(t, err)

	// {A:5} -> {A:20}: neto 15 > 10 disponibles sin el propio claim previo.
	in := submitInput(reconcile.ItemUse{StockID: "A", Quantity: 20})
	in.JobID = job.ID
	_, err = uc.SubmitJob(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), s.stock["A"].Quantity, "el stock no cambia")
	assert.Equal(t, int64(5), s.jobs[job.ID].ItemsUsed[0].Quantity, "la orden no cambia")
}

func TestSubmitJob_EditarSinCambios_Idempotente(t *testing.T) {
	s := seedStore(map[string]int64{"A": 15})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 5}))
	require.NoError(t, err)
	before := totalUnits(s)

	in := submitInput(reconcile.ItemUse{StockID: "A", Quantity: 5})
	in.JobID = job.ID
	_, err = uc.SubmitJob(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(10), s.stock["A"].Quantity)
	assert.Equal(t, before, totalUnits(s))
}

func TestSubmitJob_EditarLiberaRepuestoRetirado(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10, "B": 10})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(
		reconcile.ItemUse{StockID: "A", Quantity: 3},
		reconcile.ItemUse{StockID: "B", Quantity: 2},
	))
	require.NoError(t, err)

	// Retira B, ajusta A: B vuelve completo.
	in := submitInput(reconcile.ItemUse{StockID: "A", Quantity: 1})
	in.JobID = job.ID
	edited, err := uc.SubmitJob(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(9), s.stock["A"].Quantity)
	assert.Equal(t, int64(10), s.stock["B"].Quantity)
	require.Len(t, edited.ItemsUsed, 1)
	assert.Equal(t, "A", edited.ItemsUsed[0].StockID)
}

func TestSubmitJob_EditarOrdenInexistente(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	uc, _ := newEngine(t, s)

	in := submitInput(reconcile.ItemUse{StockID: "A", Quantity: 1})
	in.JobID = "no-existe"
	_, err := uc.SubmitJob(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrar
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteJob_ReversionCompleta(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 3}))
	require.NoError(t, err)
	require.Equal(t, int64(7), s.stock["A"].Quantity)

	require.NoError(t, uc.DeleteJob(context.Background(), job.ID))

	assert.Equal(t, int64(10), s.stock["A"].Quantity)
	assert.NotContains(t, s.jobs, job.ID)
}

func TestDeleteJob_HuecoDeRestauracion_NoBloqueaElBorrado(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10, "B": 10})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(
		reconcile.ItemUse{StockID: "A", Quantity: 2},
		reconcile.ItemUse{StockID: "B", Quantity: 4},
	))
	require.NoError(t, err)

	// El repuesto B se elimina por fuera del motor (caso borde aceptado).
	delete(s.stock, "B")

	require.NoError(t, uc.DeleteJob(context.Background(), job.ID))

	assert.Equal(t, int64(10), s.stock["A"].Quantity, "A sí se restaura")
	assert.NotContains(t, s.jobs, job.ID, "el borrado igual se confirma")
}

func TestDeleteJob_OrdenInexistente(t *testing.T) {
	s := seedStore(nil)
	uc, _ := newEngine(t, s)
	require.ErrorIs(t, uc.DeleteJob(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Completar
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteJob(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	uc, _ := newEngine(t, s)

	job, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, uc.CompleteJob(context.Background(), job.ID))
	assert.Equal(t, entity.JobStatusCompleted, s.jobs[job.ID].Status)
	assert.Equal(t, int64(9), s.stock["A"].Quantity, "completar no toca stock")

	require.ErrorIs(t, uc.CompleteJob(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia y conservación
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitJob_ConflictoTransitorio_SeReintenta(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	tx := &memTxRunner{s: s, conflicts: 2}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := reconcile.NewUseCase(tx, &memBranchRepo{s: s}, &memJobRepo{s: s}, log)

	job, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 1}))

	require.NoError(t, err, "dos conflictos caben dentro del tope de reintentos")
	require.NotNil(t, job)
	assert.Equal(t, 3, tx.runs)
	assert.Equal(t, int64(9), s.stock["A"].Quantity)
}

func TestSubmitJob_ConflictoPersistente_SeRindeConError(t *testing.T) {
	s := seedStore(map[string]int64{"A": 10})
	tx := &memTxRunner{s: s, conflicts: 100}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := reconcile.NewUseCase(tx, &memBranchRepo{s: s}, &memJobRepo{s: s}, log)

	_, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 1}))

	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 5, tx.runs, "tope de intentos")
	assert.Equal(t, int64(10), s.stock["A"].Quantity)
}

// Secuencia mixta de operaciones: la suma stock+consumo vivo es invariante
// tras cada operación exitosa.
func TestConservacion_SecuenciaDeOperaciones(t *testing.T) {
	s := seedStore(map[string]int64{"A": 20, "B": 12, "C": 7})
	uc, _ := newEngine(t, s)
	invariant := totalUnits(s)
	check := func() {
		t.Helper()
		require.Equal(t, invariant, totalUnits(s))
		for id, it := range s.stock {
			require.GreaterOrEqual(t, it.Quantity, int64(0), "stock %s nunca negativo", id)
		}
	}

	j1, err := uc.SubmitJob(context.Background(), submitInput(
		reconcile.ItemUse{StockID: "A", Quantity: 5},
		reconcile.ItemUse{StockID: "C", Quantity: 7},
	))
	require.NoError(t, err)
	check()

	j2, err := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "B", Quantity: 12}))
	require.NoError(t, err)
	check()

	in := submitInput(reconcile.ItemUse{StockID: "A", Quantity: 9}, reconcile.ItemUse{StockID: "C", Quantity: 2})
	in.JobID = j1.ID
	_, err = uc.SubmitJob(context.Background(), in)
	require.NoError(t, err)
	check()

	require.NoError(t, uc.DeleteJob(context.Background(), j2.ID))
	check()

	require.NoError(t, uc.DeleteJob(context.Background(), j1.ID))
	check()

	assert.Equal(t, int64(20), s.stock["A"].Quantity)
	assert.Equal(t, int64(12), s.stock["B"].Quantity)
	assert.Equal(t, int64(7), s.stock["C"].Quantity)
}

// Dos órdenes sobre conjuntos disjuntos de repuestos no se estorban.
func TestSubmitJob_ItemsDisjuntos_Independientes(t *testing.T) {
	s := seedStore(map[string]int64{"A": 1, "B": 1})
	uc, _ := newEngine(t, s)

	_, err1 := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "A", Quantity: 1}))
	_, err2 := uc.SubmitJob(context.Background(), submitInput(reconcile.ItemUse{StockID: "B", Quantity: 1}))

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, int64(0), s.stock["A"].Quantity)
	assert.Equal(t, int64(0), s.stock["B"].Quantity)
}
