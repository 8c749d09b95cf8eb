package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/authz"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Authorizer aplica permisos y congelamiento leyendo rol y configuración en cada llamada.
type Authorizer struct {
	roles    repository.RoleRepository
	settings repository.SettingsRepository
}

// NewAuthorizer construye el servicio.
func NewAuthorizer(roles repository.RoleRepository, settings repository.SettingsRepository) *Authorizer {
	return &Authorizer{roles: roles, settings: settings}
}

// roleOf carga el rol asignado; nil si el actor no existe o el rol ya no está.
func (a *Authorizer) roleOf(ctx context.Context, actor *entity.User) (*entity.Role, error) {
	if actor == nil || actor.Role == "" || actor.IsAdmin() {
		return nil, nil
	}
	role, err := a.roles.GetByID(ctx, actor.Role)
	if err != nil {
		return nil, fmt.Errorf("authz: cargar rol %s: %w", actor.Role, err)
	}
	return role, nil
}

// Can informa si el actor tiene la capacidad.
func (a *Authorizer) Can(ctx context.Context, actor *entity.User, capability entity.Capability) (bool, error) {
	role, err := a.roleOf(ctx, actor)
	if err != nil {
		return false, err
	}
	return authz.CanAccess(actor, role, capability), nil
}

// Require devuelve domain.ErrForbidden si el actor no tiene la capacidad.
func (a *Authorizer) Require(ctx context.Context, actor *entity.User, capability entity.Capability) error {
	ok, err := a.Can(ctx, actor, capability)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: falta permiso %s", domain.ErrForbidden, capability)
	}
	return nil
}

// RequireAdmin exige el rol admin. Una capacidad otorgada no alcanza: solo el rol cambia
// actores privilegiados, roles y congelamiento.
func (a *Authorizer) RequireAdmin(actor *entity.User) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: requiere rol admin", domain.ErrForbidden)
	}
	return nil
}

// Permissions permisos efectivos del actor, en orden de catálogo.
func (a *Authorizer) Permissions(ctx context.Context, actor *entity.User) ([]entity.Capability, error) {
	role, err := a.roleOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	return authz.EffectivePermissions(actor, role), nil
}

// RequireMutable devuelve domain.ErrFrozen si la clase está congelada para el registro.
// La configuración se lee del store en cada llamada: un cambio de flags aplica de inmediato.
func (a *Authorizer) RequireMutable(ctx context.Context, class entity.RecordClass, record authz.Freezable) error {
	settings, err := a.settings.GetFreezeSettings(ctx)
	if err != nil {
		return fmt.Errorf("authz: cargar configuración de congelamiento: %w", err)
	}
	if authz.IsFrozen(settings, class, record) {
		return fmt.Errorf("%w: %s", domain.ErrFrozen, class)
	}
	return nil
}
