package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// RoleUseCase catálogo de roles. Consultar requiere la capacidad roles; crear, editar
// y eliminar además el rol admin.
type RoleUseCase struct {
	roles repository.RoleRepository
	users repository.UserRepository
	authz *access.Authorizer
	now   func() time.Time
}

func NewRoleUseCase(roles repository.RoleRepository, users repository.UserRepository, authz *access.Authorizer) *RoleUseCase {
	return &RoleUseCase{roles: roles, users: users, authz: authz, now: func() time.Time { return time.Now().UTC() }}
}

func parsePermissions(perms []string) ([]entity.Capability, error) {
	caps, err := entity.ParseCapabilities(perms)
	if err != nil {
		v := domain.NewValidationError()
		v.Add("permissions", err.Error())
		return nil, v
	}
	return caps, nil
}

func (uc *RoleUseCase) Create(ctx context.Context, actor *entity.User, in dto.RoleRequest) (*entity.Role, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapRoles); err != nil {
		return nil, err
	}
	if err := uc.authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	caps, err := parsePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	}
	if entity.IsDefaultRoleID(id) {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	role := &entity.Role{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Permissions: caps,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (uc *RoleUseCase) List(ctx context.Context, actor *entity.User) ([]*entity.Role, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapRoles); err != nil {
		return nil, err
	}
	return uc.roles.List(ctx)
}

func (uc *RoleUseCase) load(ctx context.Context, actor *entity.User, id string) (*entity.Role, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapRoles); err != nil {
		return nil, err
	}
	role, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (uc *RoleUseCase) Get(ctx context.Context, actor *entity.User, id string) (*entity.Role, error) {
	return uc.load(ctx, actor, id)
}

// Update cambia nombre, descripción y permisos. El rol admin no se edita: siempre tiene todo.
func (uc *RoleUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.RoleRequest) (*entity.Role, error) {
	role, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if role.ID == entity.RoleAdmin {
		return nil, domain.ErrProtectedRole
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != role.Version {
		return nil, domain.ErrVersionConflict
	}
	caps, err := parsePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	role.Name = strings.TrimSpace(in.Name)
	role.Description = strings.TrimSpace(in.Description)
	role.Permissions = caps
	role.UpdatedAt = uc.now()
	if err := uc.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete elimina un rol personalizado. Los predeterminados devuelven ErrProtectedRole
// y los que tienen actores asignados ErrInUse.
func (uc *RoleUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	role, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.authz.RequireAdmin(actor); err != nil {
		return err
	}
	if role.IsDefault || entity.IsDefaultRoleID(role.ID) {
		return domain.ErrProtectedRole
	}
	n, err := uc.users.CountByRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d usuarios tienen el rol %s", domain.ErrInUse, n, role.ID)
	}
	return uc.roles.Delete(ctx, role.ID)
}
