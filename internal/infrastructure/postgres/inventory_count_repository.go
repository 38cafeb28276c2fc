package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

var _ repository.InventoryCountRepository = (*InventoryCountRepo)(nil)

// InventoryCountRepo implementación del puerto InventoryCountRepository sobre PostgreSQL.
type InventoryCountRepo struct {
	q Querier
}

// NewInventoryCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

// Upsert inserta el conteo o reemplaza el existente de (session_id, item_id) en una sola sentencia.
// Conserva el id de la fila original y lo devuelve en c.ID.
func (r *InventoryCountRepo) Upsert(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		INSERT INTO inventory_counts (id, session_id, item_id, counted_quantity, expected_quantity, difference, notes, counted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id, item_id) DO UPDATE SET
			counted_quantity  = EXCLUDED.counted_quantity,
			expected_quantity = EXCLUDED.expected_quantity,
			difference        = EXCLUDED.difference,
			notes             = EXCLUDED.notes,
			counted_at        = EXCLUDED.counted_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.ID, c.SessionID, c.ItemID, c.CountedQuantity, c.ExpectedQuantity, c.Difference, c.Notes, c.CountedAt,
	).Scan(&c.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sesión o ítem inexistente", domain.ErrConflict)
		}
		if isOutOfRange(err) {
			return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert inventory count: %w", err)
	}
	return nil
}

// ListBySession conteos de la sesión con código, nombre, cantidad actual y categoría del ítem.
func (r *InventoryCountRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.InventoryCount, error) {
	query := `
		SELECT ic.id, ic.session_id, ic.item_id, ic.counted_quantity, ic.expected_quantity, ic.difference,
		       ic.notes, ic.counted_at, i.barcode, i.name, i.quantity, COALESCE(c.name, '')
		FROM inventory_counts ic
		JOIN items i ON i.id = ic.item_id
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE ic.session_id = $1
		ORDER BY ic.counted_at DESC`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryCount, 0)
	for rows.Next() {
		var c entity.InventoryCount
		if err := rows.Scan(&c.ID, &c.SessionID, &c.ItemID, &c.CountedQuantity, &c.ExpectedQuantity, &c.Difference,
			&c.Notes, &c.CountedAt, &c.ItemBarcode, &c.ItemName, &c.CurrentQuantity, &c.CategoryName); err != nil {
			return nil, fmt.Errorf("scan inventory count: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
