package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
)

// ItemHandler catálogo de ítems, ajustes manuales de stock e importación CSV.
type ItemHandler struct {
	uc    *usecase.ItemUseCase
	stock *inventory.StockUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, stock *inventory.StockUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, stock: stock}
}

// List godoc
// @Summary      Listar o buscar ítems
// @Description  barcode hace búsqueda exacta y devuelve un único ítem; search busca parcialmente en código o nombre.
// @Tags         items
// @Security     Cookie
// @Produce      json
// @Param        barcode      query  string  false  "Código de barras exacto"
// @Param        search       query  string  false  "Texto parcial"
// @Param        category_id  query  string  false  "Categoría"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ItemFilterRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	if strings.TrimSpace(in.Barcode) != "" {
		item, err := h.uc.GetByBarcode(c.Context(), in.Barcode)
		if err != nil {
			return err
		}
		return ok(c, fiber.StatusOK, fiber.Map{"item": item})
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"items": out.Items, "page": out.Page})
}

// LowStock godoc
// @Summary      Ítems con stock bajo
// @Tags         items
// @Security     Cookie
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.Context())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"items": out, "total": len(out)})
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"item": out})
}

// Create godoc
// @Summary      Crear ítem
// @Description  Una cantidad inicial mayor que cero registra un movimiento de entrada.
// @Tags         items
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"message": "ítem creado", "item": out})
}

// Update godoc
// @Summary      Actualizar ítem
// @Description  Si cambia quantity se registra el movimiento derivado (entrada o saida) con reason.
// @Tags         items
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "ítem actualizado", "item": out})
}

// Delete elimina el ítem y su historial de movimientos; 409 si fue contado en alguna sesión.
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "ítem eliminado"})
}

// Adjust godoc
// @Summary      Movimiento manual de stock
// @Description  entrada suma, saida y transferencia restan, ajuste fija la cantidad absoluta.
// @Tags         items
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.AdjustStockRequest  true  "type, quantity, reason"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/adjust [post]
func (h *ItemHandler) Adjust(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.AdjustStockRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.stock.Adjust(c.Context(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"message": "stock actualizado", "adjustment": out})
}

// Movements historial de un ítem, más recientes primero.
func (h *ItemHandler) Movements(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	limit, offset := pageParams(c)
	out, err := h.stock.ListMovements(c.Context(), dto.MovementFilterRequest{ItemID: id, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"movements": out.Items, "page": out.Page})
}

// Import godoc
// @Summary      Importar ítems desde CSV
// @Description  Columnas barcode,name,description,category,quantity,min_quantity,unit_price,location,supplier. Separador coma o punto y coma; UTF-8 o Windows-1252.
// @Tags         items
// @Security     Cookie
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/import [post]
func (h *ItemHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: falta el archivo (campo file)", domain.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()

	out, err := h.uc.Import(c.Context(), GetActor(c), f)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"message": fmt.Sprintf("%d creados, %d actualizados, %d con error", out.Created, out.Updated, len(out.Errors)),
		"created": out.Created,
		"updated": out.Updated,
		"errors":  out.Errors,
	})
}
