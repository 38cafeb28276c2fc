package postgres

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registra el esquema pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SchemaVersion última migración embebida; CheckSchema exige exactamente esta versión.
const SchemaVersion = 1

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSchemaOutdated la base no está en la versión que espera el binario.
var ErrSchemaOutdated = errors.New("esquema de base de datos desactualizado")

// Migrate aplica las migraciones pendientes. No hacer nada también es éxito.
func Migrate(dsn string) error {
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}

// CheckSchema falla si la base no tiene migraciones, quedó sucia o no está en SchemaVersion.
func CheckSchema(dsn string) error {
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("%w: sin migraciones aplicadas (esperada v%d)", ErrSchemaOutdated, SchemaVersion)
	}
	if err != nil {
		return fmt.Errorf("leer versión del esquema: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w: la migración v%d quedó incompleta", ErrSchemaOutdated, version)
	}
	if version != SchemaVersion {
		return fmt.Errorf("%w: v%d, esperada v%d", ErrSchemaOutdated, version, SchemaVersion)
	}
	return nil
}

func newMigrator(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones embebidas: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("iniciar migrador: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	_, _ = m.Close()
}

// migrateURL adapta un DSN postgres:// al esquema del driver pgx/v5 de golang-migrate.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
