package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/pkg/logger"
)

// RequestLogger registra método, ruta, estado y latencia de cada petición.
// Los errores de la cadena se resuelven aquí con el ErrorHandler para conocer el estado final.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("user", GetActor(c).Username).
			Msg("request")
		return nil
	}
}
