package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el cambio de cantidad de un ítem y su movimiento se persisten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// SessionPolicy reglas configurables del ciclo de vida de las sesiones.
type SessionPolicy struct {
	// StrictTransitions solo permite aberta→fechada y aberta→cancelada,
	// y rechaza conteos en sesiones que no están abiertas.
	StrictTransitions bool
}
