package usecase

import (
	"io"

	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
)

// ItemRowDecoder convierte un archivo de importación en filas de ítems.
// Las filas inválidas se devuelven como ImportError sin abortar el resto.
type ItemRowDecoder interface {
	Decode(r io.Reader) ([]dto.ImportItemRow, []dto.ImportError, error)
}
