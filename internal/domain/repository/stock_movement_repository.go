package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ItemID string
	Type   string
	Since  *time.Time
	Limit  int // 0 = sin límite
	Offset int
}

// StockMovementRepository define el puerto de persistencia para movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos más recientes primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
