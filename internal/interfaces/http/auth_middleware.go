package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
)

// LocalActor clave de c.Locals con el domain.Actor autenticado.
const LocalActor = "actor"

// Authenticator resuelve un token en la identidad de su sesión.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Actor, error)
}

// AuthMiddleware acepta el token desde la cookie de sesión o como Bearer y carga el actor en c.Locals.
func AuthMiddleware(auth Authenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			token = strings.TrimSpace(parts[1])
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		actor, err := auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "sesión inválida o expirada"})
			}
			return err
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// RequireRole exige que el actor tenga alguno de los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetActor(c).Role
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "la sesión no tiene rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetActor devuelve el actor del contexto (vacío si no pasó por AuthMiddleware).
func GetActor(c *fiber.Ctx) domain.Actor {
	actor, _ := c.Locals(LocalActor).(domain.Actor)
	return actor
}
