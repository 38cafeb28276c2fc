package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/inventory"
)

// MovementHandler historial global de movimientos de stock.
type MovementHandler struct {
	stock *inventory.StockUseCase
}

func NewMovementHandler(stock *inventory.StockUseCase) *MovementHandler {
	return &MovementHandler{stock: stock}
}

// List godoc
// @Summary      Listar movimientos de stock
// @Tags         movements
// @Security     Cookie
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por ítem"
// @Param        type     query  string  false  "entrada | saida | ajuste | transferencia"
// @Param        limit    query  int     false  "Límite"  default(50)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.stock.ListMovements(c.Context(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"movements": out.Items, "page": out.Page})
}
