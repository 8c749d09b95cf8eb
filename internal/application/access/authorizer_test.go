package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
)

func setup(t *testing.T) (*access.Authorizer, *kvstore.RoleRepo, *kvstore.SettingsRepo) {
	t.Helper()
	s := kvstore.New(kvstore.NewMemoryBackend())
	roles := kvstore.NewRoleRepository(s)
	settings := kvstore.NewSettingsRepository(s)
	for _, r := range entity.DefaultRoles(time.Now()) {
		require.NoError(t, roles.Create(context.Background(), r))
	}
	return access.NewAuthorizer(roles, settings), roles, settings
}

func TestRequire_RolYPermisosIndividuales(t *testing.T) {
	a, _, _ := setup(t)
	ctx := context.Background()

	hr := &entity.User{ID: "u1", Role: entity.RoleHR}
	assert.NoError(t, a.Require(ctx, hr, entity.CapHR))
	assert.ErrorIs(t, a.Require(ctx, hr, entity.CapInvoices), domain.ErrForbidden)

	hr.Permissions = []entity.Capability{entity.CapInvoices}
	assert.NoError(t, a.Require(ctx, hr, entity.CapInvoices))
}

func TestRequire_RolInexistenteDeniega(t *testing.T) {
	a, _, _ := setup(t)
	ghost := &entity.User{ID: "u1", Role: "borrado"}
	assert.ErrorIs(t, a.Require(context.Background(), ghost, entity.CapDashboard), domain.ErrForbidden)
}

func TestRequire_CambioDeRolAplicaInmediatamente(t *testing.T) {
	a, roles, _ := setup(t)
	ctx := context.Background()
	u := &entity.User{ID: "u1", Role: entity.RoleUser}
	assert.ErrorIs(t, a.Require(ctx, u, entity.CapReports), domain.ErrForbidden)

	role, err := roles.GetByID(ctx, entity.RoleUser)
	require.NoError(t, err)
	role.Permissions = append(role.Permissions, entity.CapReports)
	require.NoError(t, roles.Update(ctx, role))

	assert.NoError(t, a.Require(ctx, u, entity.CapReports))
}

func TestRequireMutable_LeeFlagsEnCadaLlamada(t *testing.T) {
	a, _, settings := setup(t)
	ctx := context.Background()
	paid := &entity.Invoice{ID: "i1", Status: entity.InvoiceStatusPaid}

	assert.NoError(t, a.RequireMutable(ctx, entity.ClassPaidInvoices, paid))

	fs, err := settings.GetFreezeSettings(ctx)
	require.NoError(t, err)
	fs.PaidInvoices = true
	require.NoError(t, settings.SaveFreezeSettings(ctx, fs))

	assert.ErrorIs(t, a.RequireMutable(ctx, entity.ClassPaidInvoices, paid), domain.ErrFrozen)
	// Una factura en borrador no está congelada aunque el flag esté activo
	draft := &entity.Invoice{ID: "i2", Status: entity.InvoiceStatusDraft}
	assert.NoError(t, a.RequireMutable(ctx, entity.ClassPaidInvoices, draft))
}

func TestPermissions_AdminTodas(t *testing.T) {
	a, _, _ := setup(t)
	perms, err := a.Permissions(context.Background(), &entity.User{ID: "a", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.AllCapabilities(), perms)
}

func TestRequireAdmin_CapacidadNoAlcanza(t *testing.T) {
	a, _, _ := setup(t)
	granted := &entity.User{ID: "u1", Role: entity.RoleUser, Permissions: []entity.Capability{entity.CapAdmin}}
	assert.ErrorIs(t, a.RequireAdmin(granted), domain.ErrForbidden)
	assert.ErrorIs(t, a.RequireAdmin(nil), domain.ErrForbidden)
	assert.NoError(t, a.RequireAdmin(&entity.User{ID: "root", Role: entity.RoleAdmin}))
}
