package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reparaciones-api/internal/application/dto"
	"github.com/jhoicas/Reparaciones-api/internal/application/reconcile"
	"github.com/jhoicas/Reparaciones-api/internal/application/usecase"
	"github.com/jhoicas/Reparaciones-api/internal/domain"
)

// RepairHandler expone las órdenes de reparación. Las escrituras pasan por el
// motor de reconciliación; las lecturas por el caso de uso de listado.
type RepairHandler struct {
	engine *reconcile.UseCase
	list   *usecase.RepairListUseCase
}

// NewRepairHandler construye el handler.
func NewRepairHandler(engine *reconcile.UseCase, list *usecase.RepairListUseCase) *RepairHandler {
	return &RepairHandler{engine: engine, list: list}
}

// Create godoc
// @Summary      Crear una orden de reparación descontando stock
// @Description  La orden y los descuentos de inventario se confirman como una sola unidad.
// @Tags         repairs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        branchId  path  string  true  "ID de la sucursal"
// @Param        body      body  dto.SubmitRepairJobRequest  true  "Orden con itemsUsed"
// @Success      201  {object}  dto.RepairJobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/branches/{branchId}/repairs [post]
func (h *RepairHandler) Create(c *fiber.Ctx) error {
	var in dto.SubmitRepairJobRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	job, err := h.engine.SubmitJob(c.Context(), toSubmitInput("", c.Params("branchId"), in))
	if err != nil {
		return writeReconcileError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToRepairJobResponse(job))
}

// Update godoc
// @Summary      Editar una orden reconciliando los deltas de stock
// @Description  itemsUsed describe el estado deseado completo; el motor calcula los deltas contra lo almacenado.
// @Tags         repairs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.SubmitRepairJobRequest  true  "Estado deseado de la orden"
// @Success      200  {object}  dto.RepairJobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/repairs/{id} [put]
func (h *RepairHandler) Update(c *fiber.Ctx) error {
	var in dto.SubmitRepairJobRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	job, err := h.engine.SubmitJob(c.Context(), toSubmitInput(c.Params("id"), "", in))
	if err != nil {
		return writeReconcileError(c, err)
	}
	return c.JSON(usecase.ToRepairJobResponse(job))
}

// Delete godoc
// @Summary      Eliminar una orden restaurando el stock consumido
// @Description  Los repuestos que ya no existen se omiten de la restauración sin bloquear el borrado.
// @Tags         repairs
// @Security     Bearer
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/repairs/{id} [delete]
func (h *RepairHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.DeleteJob(c.Context(), c.Params("id")); err != nil {
		return writeReconcileError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete godoc
// @Summary      Marcar una orden como completada
// @Tags         repairs
// @Security     Bearer
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/repairs/{id}/complete [post]
func (h *RepairHandler) Complete(c *fiber.Ctx) error {
	if err := h.engine.CompleteJob(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener una orden por ID
// @Tags         repairs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.RepairJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/repairs/{id} [get]
func (h *RepairHandler) GetByID(c *fiber.Ctx) error {
	job, err := h.engine.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if job == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	return c.JSON(usecase.ToRepairJobResponse(job))
}

// ListByBranch godoc
// @Summary      Órdenes de una sucursal, más recientes primero
// @Tags         repairs
// @Security     Bearer
// @Produce      json
// @Param        branchId  path   string  true   "ID de la sucursal"
// @Param        limit     query  int     false  "Máximo de órdenes (default 20)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.RepairJobListResponse
// @Router       /api/branches/{branchId}/repairs [get]
func (h *RepairHandler) ListByBranch(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.list.ListByBranch(c.Params("branchId"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListRecent godoc
// @Summary      Últimas órdenes de toda la cadena
// @Tags         repairs
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de órdenes (default 10)"
// @Success      200  {object}  dto.RepairJobListResponse
// @Router       /api/repairs/recent [get]
func (h *RepairHandler) ListRecent(c *fiber.Ctx) error {
	out, err := h.list.ListRecent(c.QueryInt("limit"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func toSubmitInput(jobID, branchID string, in dto.SubmitRepairJobRequest) reconcile.SubmitJobInput {
	items := make([]reconcile.ItemUse, 0, len(in.ItemsUsed))
	for _, it := range in.ItemsUsed {
		items = append(items, reconcile.ItemUse{StockID: it.StockID, Quantity: it.Quantity})
	}
	return reconcile.SubmitJobInput{
		JobID:                  jobID,
		BranchID:               branchID,
		CustomerName:           in.CustomerName,
		PhoneModel:             in.PhoneModel,
		Description:            in.Description,
		TechnicianName:         in.TechnicianName,
		DateReceived:           in.DateReceived,
		ExpectedCompletionDate: in.ExpectedCompletionDate,
		Status:                 in.Status,
		UnderWarranty:          in.UnderWarranty,
		Price:                  in.Price,
		ItemsUsed:              items,
	}
}

// writeReconcileError traduce la taxonomía del motor a códigos HTTP. Los
// conflictos de concurrencia y de suficiencia son 409; el cliente puede
// reintentar solo los marcados como Retryable.
func writeReconcileError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficient.Error(),
		})
	}
	var missing *domain.StockItemNotFoundError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "STOCK_ITEM_NOT_FOUND",
			Message: missing.Error(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "CONCURRENCY_CONFLICT",
			Message:   "la orden no pudo confirmarse por escrituras concurrentes, reintente",
			Retryable: true,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
