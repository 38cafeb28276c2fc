package repository

import (
	"context"

	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
)

// SessionFilter filtros del listado de sesiones.
type SessionFilter struct {
	Status    string
	CompanyID string
}

// InventorySessionRepository define el puerto de persistencia para sesiones de inventario.
type InventorySessionRepository interface {
	Create(ctx context.Context, session *entity.InventorySession) error
	// GetByID devuelve la sesión con nombres de empresa/bodega/usuario.
	GetByID(ctx context.Context, id string) (*entity.InventorySession, error)
	// UpdateStatus persiste Status y FinishedAt.
	UpdateStatus(ctx context.Context, session *entity.InventorySession) error
	// List ordena por started_at DESC e incluye TotalCounts.
	List(ctx context.Context, filter SessionFilter) ([]*entity.InventorySession, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// InventoryCountRepository define el puerto de persistencia para conteos.
type InventoryCountRepository interface {
	// Upsert inserta o reemplaza el conteo de (SessionID, ItemID) en una sola sentencia.
	Upsert(ctx context.Context, count *entity.InventoryCount) error
	// ListBySession devuelve los conteos enriquecidos con datos del ítem y su categoría.
	ListBySession(ctx context.Context, sessionID string) ([]*entity.InventoryCount, error)
}
