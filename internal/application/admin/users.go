// Package admin contiene la administración de usuarios, roles, congelamiento y alertas.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// UserUseCase alta, edición y baja de actores. Requiere la capacidad users.
type UserUseCase struct {
	users repository.UserRepository
	roles repository.RoleRepository
	authz *access.Authorizer
	log   *logger.Logger
	now   func() time.Time
}

func NewUserUseCase(users repository.UserRepository, roles repository.RoleRepository, authz *access.Authorizer, log *logger.Logger) *UserUseCase {
	return &UserUseCase{
		users: users,
		roles: roles,
		authz: authz,
		log:   log.Component("admin"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// checkAssignment valida que el rol exista y que los permisos individuales pertenezcan al catálogo.
// Asignar el rol admin o la capacidad admin queda reservado a administradores.
func (uc *UserUseCase) checkAssignment(ctx context.Context, actor *entity.User, roleID string, perms []string) ([]entity.Capability, error) {
	v := domain.NewValidationError()
	role, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		v.Add("role", "el rol no existe")
	}
	caps, err := entity.ParseCapabilities(perms)
	if err != nil {
		v.Add("permissions", err.Error())
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if roleID == entity.RoleAdmin || entity.HasCapability(caps, entity.CapAdmin) {
		if err := uc.authz.RequireAdmin(actor); err != nil {
			return nil, err
		}
	}
	return caps, nil
}

func (uc *UserUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapUsers); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	caps, err := uc.checkAssignment(ctx, actor, in.Role, in.Permissions)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Permissions:  caps,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user", user.Email).Str("role", user.Role).Str("actor", actor.Email).Msg("usuario creado")
	return dto.NewUserResponse(user), nil
}

func (uc *UserUseCase) List(ctx context.Context, actor *entity.User) ([]*dto.UserResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapUsers); err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

func (uc *UserUseCase) load(ctx context.Context, actor *entity.User, id string) (*entity.User, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapUsers); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserUseCase) Get(ctx context.Context, actor *entity.User, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// guardTarget impide que un actor sin rol admin edite o elimine a un administrador.
func (uc *UserUseCase) guardTarget(actor, target *entity.User) error {
	if target.IsAdmin() {
		return uc.authz.RequireAdmin(actor)
	}
	return nil
}

// lastAdmin informa si el actor es el único con rol admin.
func (uc *UserUseCase) lastAdmin(ctx context.Context, user *entity.User) (bool, error) {
	if !user.IsAdmin() {
		return false, nil
	}
	n, err := uc.users.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return false, err
	}
	return n <= 1, nil
}

// Update cambia nombre, rol y permisos individuales. Los cambios aplican en la siguiente petición
// del actor afectado: los permisos se resuelven siempre contra el store.
func (uc *UserUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.guardTarget(actor, user); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != user.Version {
		return nil, domain.ErrVersionConflict
	}
	caps, err := uc.checkAssignment(ctx, actor, in.Role, in.Permissions)
	if err != nil {
		return nil, err
	}
	if in.Role != entity.RoleAdmin {
		last, err := uc.lastAdmin(ctx, user)
		if err != nil {
			return nil, err
		}
		if last {
			return nil, fmt.Errorf("%w: no se puede quitar el rol al último administrador", domain.ErrConflict)
		}
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Role = in.Role
	user.Permissions = caps
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user", user.Email).Str("role", user.Role).Str("actor", actor.Email).Msg("usuario actualizado")
	return dto.NewUserResponse(user), nil
}

// Delete elimina al actor. Nadie puede borrarse a sí mismo ni al último administrador.
func (uc *UserUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.guardTarget(actor, user); err != nil {
		return err
	}
	if user.ID == actor.ID {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrConflict)
	}
	last, err := uc.lastAdmin(ctx, user)
	if err != nil {
		return err
	}
	if last {
		return fmt.Errorf("%w: no se puede eliminar al último administrador", domain.ErrConflict)
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Warn().Str("user", user.Email).Str("actor", actor.Email).Msg("usuario eliminado")
	return nil
}

// Unlock limpia el bloqueo por intentos fallidos. Solo administradores.
func (uc *UserUseCase) Unlock(ctx context.Context, actor *entity.User, id string) (*dto.UserResponse, error) {
	if err := uc.authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	user.Locked = false
	user.FailedAttempts = 0
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user", user.Email).Str("actor", actor.Email).Msg("cuenta desbloqueada")
	return dto.NewUserResponse(user), nil
}
