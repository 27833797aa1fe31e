package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reparaciones-api/internal/application/auth"
	"github.com/jhoicas/Reparaciones-api/internal/application/reconcile"
	"github.com/jhoicas/Reparaciones-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BranchUC    *usecase.BranchUseCase
	StockUC     *usecase.StockUseCase
	DashboardUC *usecase.DashboardUseCase
	RepairList  *usecase.RepairListUseCase
	Reconciler  *reconcile.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (protegido)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)

	// Stock por sucursal y ajustes directos (protegido)
	stockHandler := NewStockHandler(deps.StockUC)
	branches.Post("/:branchId/stock", stockHandler.Create)
	branches.Get("/:branchId/stock", stockHandler.List)
	stock := protected.Group("/stock")
	stock.Put("/:id", stockHandler.Update)
	stock.Delete("/:id", stockHandler.Delete)

	// Órdenes de reparación (protegido)
	repairHandler := NewRepairHandler(deps.Reconciler, deps.RepairList)
	branches.Post("/:branchId/repairs", repairHandler.Create)
	branches.Get("/:branchId/repairs", repairHandler.ListByBranch)
	repairs := protected.Group("/repairs")
	repairs.Get("/recent", repairHandler.ListRecent)
	repairs.Get("/:id", repairHandler.GetByID)
	repairs.Put("/:id", repairHandler.Update)
	repairs.Delete("/:id", repairHandler.Delete)
	repairs.Post("/:id/complete", repairHandler.Complete)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.Stats)
	dashboard.Get("/branches", dashboardHandler.BranchSummaries)
	dashboard.Get("/low-stock", dashboardHandler.LowStock)
}
