package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
)

// ItemFilter filtros del listado de catálogo.
type ItemFilter struct {
	Search     string // coincidencia parcial en código de barras o nombre
	CategoryID string
	Limit      int // 0 = sin límite
	Offset     int
}

// CatalogStats totales del catálogo para el panel.
type CatalogStats struct {
	Items         int
	TotalUnits    int
	StockValue    decimal.Decimal // Σ quantity * unit_price
	LowStockItems int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene efecto dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// GetByBarcode búsqueda exacta por código de barras.
	GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error)
	// Update persiste todos los campos editables, incluida la cantidad.
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, int, error)
	// ListLowStock ítems con quantity <= min_quantity, mayor faltante primero.
	ListLowStock(ctx context.Context) ([]*entity.Item, error)
	Stats(ctx context.Context) (CatalogStats, error)
	Delete(ctx context.Context, id string) error
}
