package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/admin"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
)

// AdminHandler usuarios, roles, congelamiento y alertas de seguridad.
type AdminHandler struct {
	users    *admin.UserUseCase
	roles    *admin.RoleUseCase
	settings *admin.SettingsUseCase
}

// NewAdminHandler construye el handler de administración.
func NewAdminHandler(users *admin.UserUseCase, roles *admin.RoleUseCase, settings *admin.SettingsUseCase) *AdminHandler {
	return &AdminHandler{users: users, roles: roles, settings: settings}
}

// CreateUser godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, password, nombre, rol y permisos"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUsers GET /api/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.users.List(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetUser GET /api/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	out, err := h.users.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateUser PUT /api/users/:id
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteUser DELETE /api/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlockUser godoc
// @Summary      Desbloquear cuenta
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Router       /api/users/{id}/unlock [post]
func (h *AdminHandler) UnlockUser(c *fiber.Ctx) error {
	out, err := h.users.Unlock(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateRole godoc
// @Summary      Crear rol personalizado
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RoleRequest  true  "nombre y capacidades"
// @Success      201   {object}  entity.Role
// @Router       /api/roles [post]
func (h *AdminHandler) CreateRole(c *fiber.Ctx) error {
	var in dto.RoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.roles.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	out, err := h.roles.List(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *AdminHandler) GetRole(c *fiber.Ctx) error {
	out, err := h.roles.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.RoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.roles.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteRole godoc
// @Summary      Eliminar rol personalizado
// @Tags         roles
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del rol"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "rol predeterminado o con usuarios asignados"
// @Router       /api/roles/{id} [delete]
func (h *AdminHandler) DeleteRole(c *fiber.Ctx) error {
	if err := h.roles.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Freeze GET /api/settings/freeze
func (h *AdminHandler) Freeze(c *fiber.Ctx) error {
	out, err := h.settings.Freeze(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateFreeze godoc
// @Summary      Actualizar flags de congelamiento
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FreezeSettingsRequest  true  "seis flags y versión"
// @Success      200   {object}  entity.FreezeSettings
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settings/freeze [put]
func (h *AdminHandler) UpdateFreeze(c *fiber.Ctx) error {
	var in dto.FreezeSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.settings.UpdateFreeze(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts GET /api/security-alerts
func (h *AdminHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.settings.Alerts(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AcknowledgeAlert POST /api/security-alerts/:id/ack
func (h *AdminHandler) AcknowledgeAlert(c *fiber.Ctx) error {
	if err := h.settings.AcknowledgeAlert(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
