package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/report"
)

// ReportHandler exportaciones y panel general.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar reporte
// @Description  Descarga el reporte como adjunto. counts requiere session_id.
// @Tags         reports
// @Security     Cookie
// @Produce      text/csv
// @Produce      application/json
// @Produce      application/pdf
// @Param        type        query  string  true   "items | movements | sessions | counts | low_stock"
// @Param        format      query  string  false  "csv (defecto) | json | pdf"
// @Param        session_id  query  string  false  "Sesión (solo type=counts)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	file, err := h.uc.Export(c.Context(), in)
	if err != nil {
		return err
	}
	c.Attachment(file.Filename)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Body)
}

// Summary godoc
// @Summary      Panel general
// @Tags         reports
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"summary": out})
}
