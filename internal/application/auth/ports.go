package auth

import (
	"context"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// SessionStore sesiones vivas del servidor. Get de una sesión ausente devuelve (nil, nil).
type SessionStore interface {
	Save(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	// CountByUser sesiones abiertas del actor.
	CountByUser(ctx context.Context, userID string) (int, error)
	// DeleteExpired elimina y devuelve las sesiones vencidas en now.
	DeleteExpired(ctx context.Context, now time.Time) ([]*entity.Session, error)
}

// Member actor presente en una ruta.
type Member struct {
	UserID   string
	Email    string
	Name     string
	Route    string
	LastSeen time.Time
}

// Presence conjunto efímero de actores por ruta. No es transaccional: entradas viejas se descartan al leer.
type Presence interface {
	Join(route string, m Member)
	Leave(userID string)
	Online(route string, now time.Time) []Member
}
