package navigation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/navigation"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
)

func keys(entries []navigation.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func TestBuild_OrdenDelCatalogo(t *testing.T) {
	got := navigation.Build([]entity.Capability{entity.CapReports, entity.CapDashboard, entity.CapHR})
	assert.Equal(t, []string{"dashboard", "reports", "hr"}, keys(got))
	assert.Equal(t, "/reports", got[1].Path)
	assert.Empty(t, navigation.Build(nil))
}

func TestMenu_RolMasPermisosIndividuales(t *testing.T) {
	ctx := context.Background()
	repos := kvstore.New(kvstore.NewMemoryBackend()).Repositories()
	for _, r := range entity.DefaultRoles(time.Now()) {
		require.NoError(t, repos.Roles.Create(ctx, r))
	}
	uc := navigation.NewMenuUseCase(access.NewAuthorizer(repos.Roles, repos.Settings))

	hr := &entity.User{ID: "u-1", Role: entity.RoleHR, Permissions: []entity.Capability{entity.CapInvoices}}
	got, err := uc.Menu(ctx, hr)
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard", "invoices", "reports", "hr"}, keys(got))

	admin := &entity.User{ID: "u-2", Role: entity.RoleAdmin}
	got, err = uc.Menu(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, got, len(entity.AllCapabilities()))
}
