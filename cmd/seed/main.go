// seed prepara una base recién migrada: usuario administrador, empresa y bodega de demostración,
// y opcionalmente el catálogo inicial desde un CSV (mismo formato que POST /api/items/import).
//
// Uso: go run ./cmd/seed [ruta/items.csv]
// Credenciales del admin: SEED_ADMIN_USERNAME, SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD.
// Es idempotente: lo que ya existe se deja como está.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/infrastructure/csvimport"
	"github.com/jhoicas/Inventario-conteo/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-conteo/pkg/config"
)

const (
	demoCompany   = "Empresa Demo"
	demoWarehouse = "PRINCIPAL"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)

	// 1. Administrador
	username := envOr("SEED_ADMIN_USERNAME", "admin")
	admin, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		fail("Buscar admin", err)
	}
	if admin == nil {
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD es obligatorio para crear el administrador")
			os.Exit(1)
		}
		created, err := usecase.NewUserUseCase(userRepo).Create(ctx, dto.CreateUserRequest{
			Username: username,
			Email:    envOr("SEED_ADMIN_EMAIL", username+"@localhost.local"),
			Password: password,
			FullName: "Administrador",
			Role:     entity.RoleAdmin,
		})
		if err != nil {
			fail("Crear admin", err)
		}
		fmt.Printf("Usuario %s creado\n", created.Username)
		admin = &entity.User{ID: created.ID, Username: created.Username, Role: created.Role}
	} else {
		fmt.Printf("Usuario %s ya existe\n", admin.Username)
	}

	// 2. Empresa y bodega de demostración
	company, err := companyRepo.GetByName(ctx, demoCompany)
	if err != nil {
		fail("Buscar empresa", err)
	}
	companyID := ""
	if company == nil {
		out, err := usecase.NewCompanyUseCase(companyRepo).Create(ctx, dto.CreateCompanyRequest{Name: demoCompany})
		if err != nil {
			fail("Crear empresa", err)
		}
		companyID = out.ID
		fmt.Printf("Empresa %q creada\n", demoCompany)
	} else {
		companyID = company.ID
	}
	_, err = usecase.NewWarehouseUseCase(warehouseRepo, companyRepo).Create(ctx, dto.CreateWarehouseRequest{
		CompanyID: companyID, Code: demoWarehouse, Name: "Bodega principal",
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		fmt.Printf("Bodega %s ya existe\n", demoWarehouse)
	case err != nil:
		fail("Crear bodega", err)
	default:
		fmt.Printf("Bodega %s creada\n", demoWarehouse)
	}

	// 3. Catálogo opcional
	if len(os.Args) < 2 {
		return
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		fail("Abrir CSV", err)
	}
	defer f.Close()

	categoryUC := usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool))
	itemUC := usecase.NewItemUseCase(postgres.NewItemRepository(pool), categoryUC, postgres.NewTxRunner(pool), csvimport.NewDecoder(0))
	actor := domain.Actor{UserID: admin.ID, Username: admin.Username, Role: admin.Role}
	res, err := itemUC.Import(ctx, actor, f)
	if err != nil {
		fail("Importar CSV", err)
	}
	fmt.Printf("Catálogo: %d creados, %d actualizados, %d con error\n", res.Created, res.Updated, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Printf("  línea %d (%s): %s\n", e.Line, e.Barcode, e.Message)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
