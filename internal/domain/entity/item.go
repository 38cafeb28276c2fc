package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un ítem del catálogo identificado por su código de barras (único global).
// Quantity es el stock actual; nunca negativo por convención de la aplicación.
type Item struct {
	ID           string
	Barcode      string
	Name         string
	Description  string
	CategoryID   *string // nil = sin categoría
	CategoryName string  // solo lectura (join)
	Quantity     int
	MinQuantity  int
	UnitPrice    decimal.Decimal
	Location     string
	Supplier     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock informa si el ítem está en o por debajo de su mínimo.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// Shortage devuelve cuánto falta para llegar al mínimo (negativo si sobra).
func (i *Item) Shortage() int {
	return i.MinQuantity - i.Quantity
}
