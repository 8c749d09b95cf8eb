package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/admin"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

type fixture struct {
	repos    repository.Repositories
	users    *admin.UserUseCase
	roles    *admin.RoleUseCase
	settings *admin.SettingsUseCase
	root     *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := kvstore.New(kvstore.NewMemoryBackend()).Repositories()
	_, err := admin.Seed(ctx, repos, config.SeedConfig{AdminEmail: "Root@Acme.com", AdminPassword: "supersecreta"}, logger.Nop())
	require.NoError(t, err)
	root, err := repos.Users.GetByEmail(ctx, "root@acme.com")
	require.NoError(t, err)
	require.NotNil(t, root)

	authz := access.NewAuthorizer(repos.Roles, repos.Settings)
	return &fixture{
		repos:    repos,
		users:    admin.NewUserUseCase(repos.Users, repos.Roles, authz, logger.Nop()),
		roles:    admin.NewRoleUseCase(repos.Roles, repos.Users, authz),
		settings: admin.NewSettingsUseCase(repos.Settings, repos.Alerts, authz, logger.Nop()),
		root:     root,
	}
}

func TestSeed_Idempotente(t *testing.T) {
	f := newFixture(t)
	report, err := admin.Seed(context.Background(), f.repos, config.SeedConfig{AdminEmail: "root@acme.com", AdminPassword: "supersecreta"}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, admin.SeedReport{}, *report)

	roles, err := f.repos.Roles.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 4)
	company, err := f.repos.Settings.GetCompany(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mi Empresa", company.Name)
}

func TestUserCreate_ValidaRolYPermisos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, f.root, dto.CreateUserRequest{
		Email: "ana@acme.com", Password: "12345678", Name: "Ana", Role: "inexistente", Permissions: []string{"volar"},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")
	assert.Contains(t, verr.Fields, "permissions")

	u, err := f.users.Create(ctx, f.root, dto.CreateUserRequest{
		Email: "Ana@acme.com", Password: "12345678", Name: "Ana", Role: entity.RoleFinance, Permissions: []string{"hr"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.com", u.Email)
	assert.Equal(t, []string{"hr"}, u.Permissions)

	_, err = f.users.Create(ctx, f.root, dto.CreateUserRequest{
		Email: "ana@acme.com", Password: "12345678", Name: "Otra", Role: entity.RoleUser,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUser_SinCapacidadUsers(t *testing.T) {
	f := newFixture(t)
	hr := &entity.User{ID: "u-hr", Email: "rrhh@acme.com", Role: entity.RoleHR}
	_, err := f.users.List(context.Background(), hr)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUser_UltimoAdminProtegido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Update(ctx, f.root, f.root.ID, dto.UpdateUserRequest{Name: "Root", Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, f.users.Delete(ctx, f.root, f.root.ID), domain.ErrConflict)
}

func TestUserUnlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.users.Create(ctx, f.root, dto.CreateUserRequest{Email: "ana@acme.com", Password: "12345678", Name: "Ana", Role: entity.RoleUser})
	require.NoError(t, err)

	stored, err := f.repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	stored.Locked = true
	stored.FailedAttempts = 7
	require.NoError(t, f.repos.Users.Update(ctx, stored))

	res, err := f.users.Unlock(ctx, f.root, u.ID)
	require.NoError(t, err)
	assert.False(t, res.Locked)
	assert.Zero(t, res.FailedAttempts)
}

func TestRoleDelete_Guardas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.roles.Delete(ctx, f.root, entity.RoleFinance), domain.ErrProtectedRole)

	custom, err := f.roles.Create(ctx, f.root, dto.RoleRequest{ID: "auditor", Name: "Auditor", Permissions: []string{"reports", "dashboard"}})
	require.NoError(t, err)
	assert.Equal(t, []entity.Capability{entity.CapDashboard, entity.CapReports}, custom.Permissions)

	u, err := f.users.Create(ctx, f.root, dto.CreateUserRequest{Email: "aud@acme.com", Password: "12345678", Name: "Aud", Role: "auditor"})
	require.NoError(t, err)
	assert.ErrorIs(t, f.roles.Delete(ctx, f.root, "auditor"), domain.ErrInUse)

	require.NoError(t, f.users.Delete(ctx, f.root, u.ID))
	require.NoError(t, f.roles.Delete(ctx, f.root, "auditor"))
	_, err = f.roles.Get(ctx, f.root, "auditor")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoleUpdate_AplicaEnLaSiguienteConsulta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authz := access.NewAuthorizer(f.repos.Roles, f.repos.Settings)
	worker := &entity.User{ID: "u-w", Email: "w@acme.com", Role: entity.RoleUser}

	ok, err := authz.Can(ctx, worker, entity.CapReports)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = f.roles.Update(ctx, f.root, entity.RoleUser, dto.RoleRequest{Name: "Usuario", Permissions: []string{"dashboard", "reports"}})
	require.NoError(t, err)

	ok, err = authz.Can(ctx, worker, entity.CapReports)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.roles.Update(ctx, f.root, entity.RoleAdmin, dto.RoleRequest{Name: "Admin"})
	assert.ErrorIs(t, err, domain.ErrProtectedRole)
}

func TestFreeze_ActualizaConVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	current, err := f.settings.Freeze(ctx, f.root)
	require.NoError(t, err)
	assert.False(t, current.PaidInvoices)

	updated, err := f.settings.UpdateFreeze(ctx, f.root, dto.FreezeSettingsRequest{PaidInvoices: true, Version: current.Version})
	require.NoError(t, err)
	assert.True(t, updated.PaidInvoices)
	assert.Equal(t, "root@acme.com", updated.UpdatedBy)

	_, err = f.settings.UpdateFreeze(ctx, f.root, dto.FreezeSettingsRequest{Version: current.Version})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	finance := &entity.User{ID: "u-f", Email: "f@acme.com", Role: entity.RoleFinance}
	_, err = f.settings.Freeze(ctx, finance)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAlerts_ListarYReconocer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Alerts.Create(ctx, &entity.SecurityAlert{
		ID: "al-1", Kind: entity.AlertAccountLocked, ActorEmail: "ana@acme.com", CreatedAt: time.Now(),
	}))

	alerts, err := f.settings.Alerts(ctx, f.root)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.False(t, alerts[0].Acknowledged)

	require.NoError(t, f.settings.AcknowledgeAlert(ctx, f.root, "al-1"))
	alerts, err = f.settings.Alerts(ctx, f.root)
	require.NoError(t, err)
	assert.True(t, alerts[0].Acknowledged)
	assert.ErrorIs(t, f.settings.AcknowledgeAlert(ctx, f.root, "nope"), domain.ErrNotFound)
}

// gestor con capacidades users, roles y admin otorgadas individualmente pero sin el rol admin.
func (f *fixture) manager(t *testing.T) *entity.User {
	t.Helper()
	ctx := context.Background()
	res, err := f.users.Create(ctx, f.root, dto.CreateUserRequest{
		Email: "mgr@acme.com", Password: "12345678", Name: "Mgr", Role: entity.RoleUser,
		Permissions: []string{"users", "roles", "admin"},
	})
	require.NoError(t, err)
	mgr, err := f.repos.Users.GetByID(ctx, res.ID)
	require.NoError(t, err)
	return mgr
}

func TestUser_SinRolAdminNoEscala(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := f.manager(t)

	_, err := f.users.Update(ctx, mgr, mgr.ID, dto.UpdateUserRequest{Name: "Mgr", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.users.Create(ctx, mgr, dto.CreateUserRequest{Email: "x@acme.com", Password: "12345678", Name: "X", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.users.Create(ctx, mgr, dto.CreateUserRequest{
		Email: "y@acme.com", Password: "12345678", Name: "Y", Role: entity.RoleUser, Permissions: []string{"admin"},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// un usuario común sí puede crearlo
	_, err = f.users.Create(ctx, mgr, dto.CreateUserRequest{Email: "z@acme.com", Password: "12345678", Name: "Z", Role: entity.RoleHR})
	assert.NoError(t, err)

	stored, err := f.repos.Users.GetByID(ctx, mgr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, stored.Role)
}

func TestUser_SinRolAdminNoTocaAdministradores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := f.manager(t)

	_, err := f.users.Update(ctx, mgr, f.root.ID, dto.UpdateUserRequest{Name: "Root", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.users.Delete(ctx, mgr, f.root.ID), domain.ErrForbidden)
}

func TestUserUnlock_SoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := f.manager(t)

	_, err := f.users.Unlock(ctx, mgr, mgr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.users.Unlock(ctx, f.root, mgr.ID)
	assert.NoError(t, err)
}

func TestRole_MutacionesSoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := f.manager(t)

	_, err := f.roles.List(ctx, mgr)
	require.NoError(t, err)

	_, err = f.roles.Create(ctx, mgr, dto.RoleRequest{ID: "super", Name: "Super", Permissions: []string{"admin"}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.roles.Update(ctx, mgr, entity.RoleUser, dto.RoleRequest{Name: "Usuario", Permissions: []string{"dashboard", "admin"}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.roles.Delete(ctx, mgr, entity.RoleHR), domain.ErrForbidden)

	role, err := f.repos.Roles.GetByID(ctx, entity.RoleUser)
	require.NoError(t, err)
	assert.False(t, entity.HasCapability(role.Permissions, entity.CapAdmin))
}

func TestFreezeYAlertas_MutacionesSoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := f.manager(t)
	require.NoError(t, f.repos.Alerts.Create(ctx, &entity.SecurityAlert{
		ID: "al-1", Kind: entity.AlertAccountLocked, ActorEmail: "ana@acme.com", CreatedAt: time.Now(),
	}))

	// con la capacidad admin puede consultar
	_, err := f.settings.Freeze(ctx, mgr)
	require.NoError(t, err)
	_, err = f.settings.Alerts(ctx, mgr)
	require.NoError(t, err)

	_, err = f.settings.UpdateFreeze(ctx, mgr, dto.FreezeSettingsRequest{PaidInvoices: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.settings.AcknowledgeAlert(ctx, mgr, "al-1"), domain.ErrForbidden)

	current, err := f.repos.Settings.GetFreezeSettings(ctx)
	require.NoError(t, err)
	assert.False(t, current.PaidInvoices)
}
