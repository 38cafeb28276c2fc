package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Inventario-conteo/internal/application/auth"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/application/report"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/pkg/logger"
)

// maxUploadBytes tope del cuerpo (importaciones CSV incluidas).
const maxUploadBytes = 10 << 20

// HealthCheck dependencia verificada por GET /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	CategoryUC  *usecase.CategoryUseCase
	ItemUC      *usecase.ItemUseCase
	UserUC      *usecase.UserUseCase
	StockUC     *inventory.StockUseCase
	SessionUC   *inventory.SessionUseCase
	ReportUC    *report.UseCase
	AuthUC      *auth.AuthUseCase
	Cookie      CookieConfig
	// LoginRateLimit intentos de login por minuto e IP; 0 usa 10.
	LoginRateLimit int
	HealthChecks   []HealthCheck
	ServiceName    string
}

// NewApp crea la app Fiber con el manejador de errores, el log de peticiones y recover.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: NewErrorHandler(log),
		BodyLimit:    maxUploadBytes,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.ServiceName, deps.HealthChecks))

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	authMW := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)
	api.Post("/auth/login", loginLimiter(deps.LoginRateLimit), authHandler.Login)
	api.Post("/auth/logout", authMW, authHandler.Logout)
	api.Get("/auth/me", authMW, authHandler.Me)

	// Rutas protegidas (requieren sesión)
	protected := api.Group("/", authMW)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Companies: lectura cualquier rol, mutación admin
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", adminOnly, companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", adminOnly, companyHandler.Update)
	companies.Delete("/:id", adminOnly, companyHandler.Delete)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Items (rutas fijas antes de /:id)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.StockUC)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Post("/import", itemHandler.Import)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/adjust", itemHandler.Adjust)
	items.Get("/:id/movements", itemHandler.Movements)

	// Movements
	movementHandler := NewMovementHandler(deps.StockUC)
	protected.Get("/movements", movementHandler.List)

	// Sessions
	sessions := protected.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessions.Get("/", sessionHandler.List)
	sessions.Post("/", sessionHandler.Create)
	sessions.Put("/", sessionHandler.UpdateStatus)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Put("/:id/status", sessionHandler.SetStatus)
	sessions.Post("/:id/counts", sessionHandler.RecordCount)
	sessions.Post("/:id/apply", adminOnly, sessionHandler.Apply)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/export", reportHandler.Export)
	reports.Get("/summary", reportHandler.Summary)
}

func loginLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 10
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos de login, intente en un minuto",
			})
		},
	})
}

func healthHandler(service string, checks []HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		results := make(fiber.Map, len(checks))
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				results[hc.Name] = "error"
				status = fiber.StatusServiceUnavailable
				continue
			}
			results[hc.Name] = "ok"
		}
		state := "ok"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"success": status == fiber.StatusOK,
			"status":  state,
			"service": service,
			"checks":  results,
		})
	}
}
