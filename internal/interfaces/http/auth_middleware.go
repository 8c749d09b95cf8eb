package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
)

// Locals keys para el actor y su sesión en Fiber.
const (
	LocalUser    = "user"
	LocalSession = "session"
	localError   = "error"
)

// SessionResolver valida la sesión del token contra el store y relee el actor.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*entity.Session, *entity.User, error)
}

// CapabilityChecker chequeo de capacidades sobre el actor autenticado.
type CapabilityChecker interface {
	Require(ctx context.Context, actor *entity.User, capability entity.Capability) error
}

// AuthMiddleware valida el Bearer Token JWT, resuelve la sesión y carga actor y sesión en c.Locals.
// El rol del token no se usa para autorizar: los permisos se leen del store en cada petición.
func AuthMiddleware(jwtSecret string, sessions SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		_, sessionID, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		session, user, err := sessions.Resolve(c.Context(), sessionID)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalUser, user)
		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// RequireCapability corta con 403 si el actor no tiene la capacidad.
func RequireCapability(checker CapabilityChecker, capability entity.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		}
		if err := checker.Require(c.Context(), actor, capability); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}
