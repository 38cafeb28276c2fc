package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, company_id, code, name, address, active, created_at, updated_at`

// Create persiste una bodega. Código repetido en la empresa → ErrDuplicate; empresa inexistente → ErrConflict.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, w.ID, w.CompanyID, w.Code, w.Name, w.Address, w.Active, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bodega %q", domain.ErrDuplicate, w.Code)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: empresa inexistente", domain.ErrConflict)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// GetByCompanyAndCode obtiene una bodega por empresa y código.
func (r *WarehouseRepo) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx,
		`SELECT `+warehouseColumns+` FROM warehouses WHERE company_id = $1 AND code = $2`, companyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse by code: %w", err)
	}
	return w, nil
}

// Update actualiza una bodega existente. La empresa no cambia.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET code = $2, name = $3, address = $4, active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, w.ID, w.Code, w.Name, w.Address, w.Active, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bodega %q", domain.ErrDuplicate, w.Code)
		}
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// ListByCompany lista bodegas por código; companyID vacío lista todas.
func (r *WarehouseRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	query := `
		SELECT ` + warehouseColumns + ` FROM warehouses
		WHERE ($1::uuid IS NULL OR company_id = $1)
		ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, nullIfEmpty(&companyID), limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Warehouse, 0)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Delete elimina una bodega. Si tiene sesiones la FK lo impide (ErrConflict).
func (r *WarehouseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la bodega tiene sesiones de inventario", domain.ErrConflict)
		}
		return fmt.Errorf("delete warehouse: %w", err)
	}
	return nil
}

func scanWarehouse(row pgxScanner) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.CompanyID, &w.Code, &w.Name, &w.Address, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
