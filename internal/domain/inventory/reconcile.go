package inventory

import (
	"math"
	"sort"

	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
)

// MaxQuantity tope de cualquier cantidad almacenada (columnas INTEGER).
const MaxQuantity = math.MaxInt32

// ValidQuantity informa si n es una cantidad almacenable: entero entre 0 y MaxQuantity.
func ValidQuantity(n int) bool {
	return n >= 0 && n <= MaxQuantity
}

// Difference devuelve contado - esperado, sin redondeo ni recorte.
// Positivo = sobrante, negativo = faltante.
func Difference(counted, expected int) int {
	return counted - expected
}

// Summary agregados de una sesión calculados en lectura.
type Summary struct {
	TotalCounts     int
	Discrepancies   int
	TotalDifference int
	DiscrepancyRate float64
}

// Summarize calcula los agregados de una sesión a partir de sus conteos.
func Summarize(counts []*entity.InventoryCount) Summary {
	var s Summary
	for _, c := range counts {
		s.TotalCounts++
		s.TotalDifference += c.Difference
		if c.Difference != 0 {
			s.Discrepancies++
		}
	}
	s.DiscrepancyRate = DiscrepancyRate(s.Discrepancies, s.TotalCounts)
	return s
}

// DiscrepancyRate devuelve discrepancias/total; 0 cuando no hay conteos.
func DiscrepancyRate(discrepancies, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(discrepancies) / float64(total)
}

// MovementChange movimiento derivado de un cambio de cantidad.
type MovementChange struct {
	Type     string
	Quantity int
}

// MovementForChange deriva el movimiento de stock de un cambio old→new.
// Devuelve false si no hay cambio (no se registra movimiento).
func MovementForChange(oldQty, newQty int) (MovementChange, bool) {
	diff := newQty - oldQty
	switch {
	case diff > 0:
		return MovementChange{Type: entity.MovementTypeEntrada, Quantity: diff}, true
	case diff < 0:
		return MovementChange{Type: entity.MovementTypeSaida, Quantity: -diff}, true
	}
	return MovementChange{}, false
}

// ApplyManualMovement calcula la nueva cantidad para un movimiento manual explícito.
// entrada suma, saida y transferencia restan, ajuste fija la cantidad absoluta.
// Devuelve la nueva cantidad y la magnitud del movimiento; ok=false si el resultado sería negativo.
func ApplyManualMovement(current int, movementType string, quantity int) (newQty, magnitude int, ok bool) {
	switch movementType {
	case entity.MovementTypeEntrada:
		return current + quantity, quantity, true
	case entity.MovementTypeSaida, entity.MovementTypeTransferencia:
		if current-quantity < 0 {
			return current, 0, false
		}
		return current - quantity, quantity, true
	case entity.MovementTypeAjuste:
		diff := quantity - current
		if diff < 0 {
			diff = -diff
		}
		return quantity, diff, true
	}
	return current, 0, false
}

// SortShortages ordena ítems por faltante (min - cantidad) descendente; a igualdad, por nombre.
func SortShortages(items []*entity.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Shortage(), items[j].Shortage()
		if a != b {
			return a > b
		}
		return items[i].Name < items[j].Name
	})
}
