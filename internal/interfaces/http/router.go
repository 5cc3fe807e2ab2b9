package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CatalogUC      *usecase.CatalogUseCase
	ProductUC      *usecase.ProductUseCase
	RecordMovement *inventory.RecordMovementUseCase
	UndoMovement   *inventory.UndoMovementUseCase
	AdjustBalance  *inventory.AdjustBalanceUseCase
	ReportUC       *appanalytics.ReportUseCase
	ExportUC       *appanalytics.ExportUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	Users          repository.UserRepository
	Cache          ports.ViewCache
	JWTSecret      string

	// Opcionales.
	ServiceName    string
	HealthCheck    func(ctx context.Context) error
	MetricsHandler http.Handler
}

// NewApp crea la app Fiber con recover, log de peticiones y el manejo de errores común.
func NewApp(name string, log zerolog.Logger, obs HTTPObserver) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log, obs))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token de un usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.Users))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/catalog", catalogHandler.Get)
	protected.Post("/catalog/categories", adminOnly, catalogHandler.CreateCategory)
	protected.Post("/catalog/colors", adminOnly, catalogHandler.CreateColor)
	protected.Post("/catalog/units", adminOnly, catalogHandler.CreateUnit)

	// Productos y saldos
	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:id", productHandler.GetByID)
	protected.Post("/products", adminOnly, productHandler.Create)
	protected.Patch("/products/:id", adminOnly, productHandler.Update)
	protected.Get("/balances", productHandler.Balances)
	protected.Get("/balances/:productId", productHandler.Balance)

	// Libro: movimientos, deshacer y ajustes
	inventoryHandler := NewInventoryHandler(deps.RecordMovement, deps.UndoMovement, deps.AdjustBalance, deps.ReportUC, deps.Cache)
	protected.Post("/movements", inventoryHandler.RecordMovement)
	protected.Get("/movements/recent", inventoryHandler.Recent)
	protected.Post("/movements/:id/undo", inventoryHandler.Undo)
	protected.Post("/adjustments", adminOnly, inventoryHandler.Adjust)
	protected.Get("/adjustments", adminOnly, inventoryHandler.ListAdjustments)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	// Reportes (admin)
	reportHandler := NewReportHandler(deps.ReportUC, deps.ExportUC)
	reports := protected.Group("/reports", adminOnly)
	reports.Get("/daily", reportHandler.Daily)
	reports.Get("/daily.pdf", reportHandler.DailyPDF)
	reports.Get("/daily.xlsx", reportHandler.DailyXLSX)
	reports.Get("/large-dispatches", reportHandler.LargeDispatches)
	reports.Get("/anomalies", reportHandler.Anomalies)
	reports.Get("/negative-stock", reportHandler.NegativeStock)

	// Usuarios (admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id/status", userHandler.SetStatus)
	users.Put("/:id/pin", userHandler.ResetPin)
}
