package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/navigation"
)

// AuthHandler maneja registro, login, sesión, menú y presencia.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	menu *navigation.MenuUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, menu *navigation.MenuUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, menu: menu}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s := GetSession(c)
	if s == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Logout(c.Context(), s.ID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Actor autenticado, sesión y permisos efectivos
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.Context(), GetSession(c), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Menu godoc
// @Summary      Menú lateral según permisos
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  navigation.Entry
// @Router       /api/me/menu [get]
func (h *AuthHandler) Menu(c *fiber.Ctx) error {
	out, err := h.menu.Menu(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Heartbeat godoc
// @Summary      Registrar presencia en una ruta
// @Tags         presence
// @Security     BearerAuth
// @Accept       json
// @Param        body  body  dto.HeartbeatRequest  true  "ruta actual"
// @Success      204
// @Router       /api/presence/heartbeat [post]
func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	var in dto.HeartbeatRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	h.uc.Heartbeat(GetActor(c), in.Route)
	return c.SendStatus(fiber.StatusNoContent)
}

// Presence godoc
// @Summary      Actores conectados en una ruta
// @Tags         presence
// @Security     BearerAuth
// @Produce      json
// @Param        route  query  string  false  "ruta (por defecto /dashboard)"
// @Success      200  {array}  dto.PresenceEntry
// @Router       /api/presence [get]
func (h *AuthHandler) Presence(c *fiber.Ctx) error {
	return c.JSON(h.uc.Online(c.Query("route", auth.DefaultRoute)))
}
