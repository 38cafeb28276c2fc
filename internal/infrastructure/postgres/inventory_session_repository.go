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

var _ repository.InventorySessionRepository = (*InventorySessionRepo)(nil)

// InventorySessionRepo implementación del puerto InventorySessionRepository sobre PostgreSQL.
type InventorySessionRepo struct {
	q Querier
}

// NewInventorySessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventorySessionRepository(q Querier) *InventorySessionRepo {
	return &InventorySessionRepo{q: q}
}

const sessionSelect = `
	SELECT s.id, s.name, s.description, s.company_id, s.warehouse_id, s.user_id, s.status,
	       s.started_at, s.finished_at, c.name, w.name, COALESCE(u.username, ''),
	       (SELECT count(*) FROM inventory_counts ic WHERE ic.session_id = s.id)
	FROM inventory_sessions s
	JOIN companies c ON c.id = s.company_id
	JOIN warehouses w ON w.id = s.warehouse_id
	LEFT JOIN users u ON u.id = s.user_id`

// Create persiste una sesión nueva.
func (r *InventorySessionRepo) Create(ctx context.Context, s *entity.InventorySession) error {
	query := `
		INSERT INTO inventory_sessions (id, name, description, company_id, warehouse_id, user_id, status, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.CompanyID, s.WarehouseID, s.UserID, s.Status, s.StartedAt, s.FinishedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: empresa, bodega o usuario inexistente", domain.ErrConflict)
		}
		return fmt.Errorf("insert inventory session: %w", err)
	}
	return nil
}

// GetByID obtiene la sesión con nombres y total de conteos.
func (r *InventorySessionRepo) GetByID(ctx context.Context, id string) (*entity.InventorySession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, sessionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory session: %w", err)
	}
	return s, nil
}

// UpdateStatus persiste Status y FinishedAt; es la única mutación de una sesión.
func (r *InventorySessionRepo) UpdateStatus(ctx context.Context, s *entity.InventorySession) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE inventory_sessions SET status = $2, finished_at = $3 WHERE id = $1`,
		s.ID, s.Status, s.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory session status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: sesión", domain.ErrNotFound)
	}
	return nil
}

// List lista sesiones por started_at DESC.
func (r *InventorySessionRepo) List(ctx context.Context, f repository.SessionFilter) ([]*entity.InventorySession, error) {
	rows, err := r.q.Query(ctx, sessionSelect+`
		WHERE ($1 = '' OR s.status = $1)
		  AND ($2::uuid IS NULL OR s.company_id = $2)
		ORDER BY s.started_at DESC`,
		f.Status, nullIfEmpty(&f.CompanyID),
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory sessions: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventorySession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// CountByStatus cuenta las sesiones en un estado.
func (r *InventorySessionRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_sessions WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inventory sessions: %w", err)
	}
	return n, nil
}

func scanSession(row pgxScanner) (*entity.InventorySession, error) {
	var s entity.InventorySession
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.CompanyID, &s.WarehouseID, &s.UserID, &s.Status,
		&s.StartedAt, &s.FinishedAt, &s.CompanyName, &s.WarehouseName, &s.Username, &s.TotalCounts,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
