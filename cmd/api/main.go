package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jhoicas/Inventario-conteo/internal/application/auth"
	"github.com/jhoicas/Inventario-conteo/internal/application/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/application/report"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/infrastructure/csvimport"
	infrapdf "github.com/jhoicas/Inventario-conteo/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-conteo/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Inventario-conteo/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Inventario-conteo/internal/interfaces/http"
	"github.com/jhoicas/Inventario-conteo/pkg/config"
	"github.com/jhoicas/Inventario-conteo/pkg/logger"
)

// maxImportRows tope de filas de una importación CSV.
const maxImportRows = 20000

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Esquema: aplicar migraciones o exigir que la base esté al día.
	dsn := cfg.DB.ConnectionString()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(dsn); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Uint("version", postgres.SchemaVersion).Msg("esquema migrado")
	} else if err := postgres.CheckSchema(dsn); err != nil {
		if errors.Is(err, postgres.ErrSchemaOutdated) {
			log.Fatal().Err(err).Msg("esquema desactualizado; ejecute las migraciones o active DB_AUTO_MIGRATE")
		}
		log.Fatal().Err(err).Msg("verificar esquema")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	sessionRepo := postgres.NewInventorySessionRepository(pool)
	countRepo := postgres.NewInventoryCountRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, companyRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, categoryUC, txRunner, csvimport.NewDecoder(maxImportRows))
	userUC := usecase.NewUserUseCase(userRepo)
	stockUC := inventory.NewStockUseCase(txRunner, movementRepo)
	sessionUC := inventory.NewSessionUseCase(
		sessionRepo, countRepo, companyRepo, warehouseRepo, itemRepo, txRunner,
		inventory.SessionPolicy{StrictTransitions: cfg.Inventory.StrictTransitions},
	)

	// PDF: reportes tabulares
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := report.NewUseCase(itemRepo, movementRepo, sessionRepo, countRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, infraredis.NewSessionStore(redisClient), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.DocsPath != "" {
		if _, err := os.Stat(cfg.App.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.App.DocsPath,
				Path:     "docs",
				Title:    "Inventario Conteo API",
			}))
		} else {
			log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		WarehouseUC: warehouseUC,
		CategoryUC:  categoryUC,
		ItemUC:      itemUC,
		UserUC:      userUC,
		StockUC:     stockUC,
		SessionUC:   sessionUC,
		ReportUC:    reportUC,
		AuthUC:      authUC,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		ServiceName: cfg.App.Name,
		HealthChecks: []httpRouter.HealthCheck{
			{Name: "postgres", Check: pool.Ping},
			{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
