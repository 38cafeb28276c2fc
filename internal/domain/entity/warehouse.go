package entity

import "time"

// Warehouse representa una bodega o depósito de una empresa.
// El código es único dentro de la empresa.
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
