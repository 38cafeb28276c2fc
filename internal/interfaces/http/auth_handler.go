package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-conteo/internal/application/auth"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
)

// CookieConfig cookie de sesión emitida en el login.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler maneja login, logout y el usuario actual.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Acepta usuario o email. Emite la cookie de sesión y devuelve el mismo token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username (o email), password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    out.Token,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ok(c, fiber.StatusOK, fiber.Map{
		"message":    "sesión iniciada",
		"token":      out.Token,
		"expires_at": out.ExpiresAt,
		"user":       out.User,
	})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.Context(), GetActor(c)); err != nil {
		return err
	}
	c.ClearCookie(h.cookie.Name)
	return c.JSON(dto.MessageResponse{Success: true, Message: "sesión cerrada"})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.Context(), GetActor(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"user": out})
}
