package entity

import "time"

// InventoryCount observación de un ítem dentro de una sesión.
// Hay como máximo una fila por (SessionID, ItemID).
type InventoryCount struct {
	ID               string
	SessionID        string
	ItemID           string
	CountedQuantity  int
	ExpectedQuantity int // cantidad del catálogo en el momento del conteo
	Difference       int // CountedQuantity - ExpectedQuantity
	Notes            string
	CountedAt        time.Time

	// Solo lectura (joins)
	ItemBarcode     string
	ItemName        string
	CurrentQuantity int
	CategoryName    string
}
