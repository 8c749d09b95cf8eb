package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para los actores (DIP).
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
// Update es condicional: si la versión almacenada cambió devuelve domain.ErrVersionConflict.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, roleID string) (int, error)
}
