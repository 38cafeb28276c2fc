package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
)

// CategoryHandler CRUD de categorías (nombre único).
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"categories": out})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"message": "categoría creada", "category": out})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "categoría actualizada", "category": out})
}

// Delete deja sin categoría a los ítems que la usaban.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "categoría eliminada"})
}
