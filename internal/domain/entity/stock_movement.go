package entity

import "time"

// Tipos de movimiento de stock. La dirección la da el tipo, no el signo.
const (
	MovementTypeEntrada       = "entrada"       // entrada
	MovementTypeSaida         = "saida"         // salida
	MovementTypeAjuste        = "ajuste"        // ajuste manual
	MovementTypeTransferencia = "transferencia" // traslado
)

// IsValidMovementType informa si t es uno de los tipos soportados.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSaida, MovementTypeAjuste, MovementTypeTransferencia:
		return true
	}
	return false
}

// StockMovement registro inmutable (append-only) de un cambio de cantidad de un ítem.
type StockMovement struct {
	ID        string
	ItemID    string
	Type      string
	Quantity  int     // magnitud, siempre >= 0
	Reason    string
	UserID    *string // nil si no hay usuario (procesos de sistema)
	CreatedAt time.Time

	// Solo lectura (joins para listados y reportes)
	ItemBarcode string
	ItemName    string
	Username    string
}
