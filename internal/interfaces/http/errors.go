package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
)

// mapping orden de evaluación: el primer sentinel que coincide gana.
var mapping = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{domain.ErrSessionExpired, fiber.StatusUnauthorized, "SESSION_EXPIRED", "la sesión expiró, inicie sesión de nuevo"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrAccountLocked, fiber.StatusLocked, "ACCOUNT_LOCKED", "cuenta bloqueada, contacte a un administrador"},
	{domain.ErrFrozen, fiber.StatusForbidden, "FROZEN", "el registro está congelado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", "usuario no encontrado"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe"},
	{domain.ErrVersionConflict, fiber.StatusConflict, "VERSION_CONFLICT", "el registro fue modificado, recargue e intente de nuevo"},
	{domain.ErrInUse, fiber.StatusConflict, "IN_USE", "el recurso está en uso"},
	{domain.ErrProtectedRole, fiber.StatusConflict, "PROTECTED_ROLE", "los roles predeterminados no se pueden modificar ni eliminar"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
}

// writeError traduce un error de dominio a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields})
	}
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			msg := m.message
			if m.status == fiber.StatusConflict || m.status == fiber.StatusBadRequest {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: ferr.Message})
	}
	// el logger de requests lo adjunta a la línea del 500
	c.Locals(localError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador global de fiber (rutas inexistentes, panics recuperados, errores devueltos sin mapear).
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
