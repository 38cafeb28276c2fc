package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto StockMovementRepository (append-only).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create registra un movimiento de stock.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, movement_type, quantity, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ItemID, m.Type, m.Quantity, m.Reason, m.UserID, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: ítem o usuario inexistente", domain.ErrConflict)
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List devuelve los movimientos más recientes primero con código, nombre del ítem y usuario.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT m.id, m.item_id, m.movement_type, m.quantity, m.reason, m.user_id, m.created_at,
		       i.barcode, i.name, COALESCE(u.username, '')
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		LEFT JOIN users u ON u.id = m.user_id
		WHERE ($1::uuid IS NULL OR m.item_id = $1)
		  AND ($2 = '' OR m.movement_type = $2)
		  AND ($3::timestamptz IS NULL OR m.created_at >= $3)
		ORDER BY m.created_at DESC, m.id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, nullIfEmpty(&f.ItemID), f.Type, f.Since, limitOrAll(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Type, &m.Quantity, &m.Reason, &m.UserID, &m.CreatedAt,
			&m.ItemBarcode, &m.ItemName, &m.Username); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountSince cuenta los movimientos desde since (inclusive).
func (r *StockMovementRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}
