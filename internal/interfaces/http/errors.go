package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/pkg/logger"
)

// mensaje devuelto en los 500; el detalle solo va al log.
const internalErrorMessage = "error interno del servidor"

// NewErrorHandler traduce los errores devueltos por los handlers al sobre {success:false, code, message}.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code, message := classifyError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error no controlado")
			message = internalErrorMessage
		}
		return c.Status(status).JSON(dto.ErrorResponse{Success: false, Code: code, Message: message})
	}
}

func classifyError(err error) (int, string, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusMethodNotAllowed:
			return fe.Code, "METHOD_NOT_ALLOWED", "método no permitido"
		case fiber.StatusNotFound:
			return fe.Code, "NOT_FOUND", "ruta no encontrada"
		case fiber.StatusRequestEntityTooLarge:
			return fe.Code, "PAYLOAD_TOO_LARGE", "el cuerpo supera el tamaño permitido"
		case fiber.StatusTooManyRequests:
			return fe.Code, "TOO_MANY_REQUESTS", "demasiadas solicitudes, intente más tarde"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, "BAD_REQUEST", fe.Message
		}
		return fe.Code, "INTERNAL", fe.Message
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE", err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error()
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", err.Error()
	}
	return fiber.StatusInternalServerError, "INTERNAL", internalErrorMessage
}

// ok responde {success:true, ...payload}.
func ok(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
