package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/inventory"
)

// SessionHandler sesiones de conteo: apertura, conteos, cambios de estado y aplicación al catálogo.
type SessionHandler struct {
	uc *inventory.SessionUseCase
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *inventory.SessionUseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sesión o registrar conteo
// @Description  Sin barcode abre una sesión en estado aberta. Con barcode (y session_id) registra un conteo.
// @Tags         sessions
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "name, description, company_id, warehouse_id"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var probe struct {
		Barcode *string `json:"barcode"`
	}
	if err := c.BodyParser(&probe); err == nil && probe.Barcode != nil {
		var in dto.RecordCountRequest
		if err := parseBody(c, &in); err != nil {
			return err
		}
		sessionID, err := uuidParam(in.SessionID, "session_id")
		if err != nil {
			return err
		}
		return h.recordCount(c, sessionID, in)
	}

	var in dto.CreateSessionRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, fiber.Map{
		"message":    "sesión creada",
		"session_id": out.ID,
		"session":    out,
	})
}

// List godoc
// @Summary      Listar sesiones
// @Description  Con id devuelve el detalle de esa sesión (igual que GET /sessions/{id}).
// @Tags         sessions
// @Security     Cookie
// @Produce      json
// @Param        id          query  string  false  "ID de la sesión"
// @Param        status      query  string  false  "aberta | fechada | cancelada"
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Success      200  {array}   dto.SessionResponse
// @Router       /api/sessions [get]
func (h *SessionHandler) List(c *fiber.Ctx) error {
	if raw := c.Query("id"); raw != "" {
		id, err := uuidParam(raw, "id")
		if err != nil {
			return err
		}
		return h.detail(c, id)
	}
	companyID := c.Query("company_id")
	if companyID != "" {
		var err error
		if companyID, err = uuidParam(companyID, "company_id"); err != nil {
			return err
		}
	}
	out, err := h.uc.List(c.Context(), c.Query("status"), companyID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"sessions": out, "total": len(out)})
}

// Get godoc
// @Summary      Detalle de sesión
// @Description  Sesión con todos sus conteos y los agregados (total, discrepancias, diferencia total, tasa).
// @Tags         sessions
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.detail(c, id)
}

// UpdateStatus godoc
// @Summary      Cambiar estado (cuerpo con session_id)
// @Tags         sessions
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSessionStatusRequest  true  "session_id, status"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sessions [put]
func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateSessionStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	id, err := uuidParam(in.SessionID, "session_id")
	if err != nil {
		return err
	}
	return h.setStatus(c, id, in.Status)
}

// SetStatus PUT /sessions/:id/status.
func (h *SessionHandler) SetStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateSessionStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	return h.setStatus(c, id, in.Status)
}

// RecordCount godoc
// @Summary      Registrar conteo
// @Description  Búsqueda exacta por código de barras. Un segundo conteo del mismo ítem reemplaza al anterior.
// @Tags         sessions
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.RecordCountRequest  true  "barcode, counted_quantity, notes"
// @Success      201   {object}  dto.RecordCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/counts [post]
func (h *SessionHandler) RecordCount(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.RecordCountRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	return h.recordCount(c, id, in)
}

// Apply godoc
// @Summary      Aplicar conteos al catálogo
// @Description  Para una sesión fechada, fija la cantidad contada en cada ítem con discrepancia (movimiento ajuste).
// @Tags         sessions
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ApplySessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/apply [post]
func (h *SessionHandler) Apply(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Apply(c.Context(), GetActor(c), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"message":    "conteos aplicados al catálogo",
		"session_id": out.SessionID,
		"adjusted":   out.Adjusted,
		"unchanged":  out.Unchanged,
	})
}

func (h *SessionHandler) detail(c *fiber.Ctx, id string) error {
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"session": out.Session,
		"counts":  out.Counts,
		"summary": out.Summary,
	})
}

func (h *SessionHandler) setStatus(c *fiber.Ctx, id, status string) error {
	out, err := h.uc.SetStatus(c.Context(), id, status)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "estado actualizado", "session": out})
}

func (h *SessionHandler) recordCount(c *fiber.Ctx, sessionID string, in dto.RecordCountRequest) error {
	out, err := h.uc.RecordCount(c.Context(), sessionID, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, fiber.Map{
		"message":           "conteo registrado",
		"item_id":           out.ItemID,
		"barcode":           out.Barcode,
		"item_name":         out.ItemName,
		"counted_quantity":  out.CountedQuantity,
		"expected_quantity": out.ExpectedQuantity,
		"difference":        out.Difference,
		"counted_at":        out.CountedAt,
	})
}
