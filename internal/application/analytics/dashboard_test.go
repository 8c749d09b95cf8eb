package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

func seed(t *testing.T) (repository.Repositories, *analytics.DashboardUseCase) {
	t.Helper()
	ctx := context.Background()
	repos := kvstore.New(kvstore.NewMemoryBackend()).Repositories()
	for _, r := range entity.DefaultRoles(now) {
		require.NoError(t, repos.Roles.Create(ctx, r))
	}
	require.NoError(t, repos.Roles.Create(ctx, &entity.Role{ID: "sin-panel", Name: "Sin panel", Permissions: []entity.Capability{entity.CapInvoices}}))

	invoices := []*entity.Invoice{
		{ID: "i1", InvoiceNumber: "INV-001", Currency: "USD", Status: entity.InvoiceStatusPaid, Total: d("100"), IssueDate: date(2026, 9, 1), DueDate: date(2026, 9, 30)},
		{ID: "i2", InvoiceNumber: "INV-002", Currency: "USD", Status: entity.InvoiceStatusSent, Total: d("50.255"), IssueDate: date(2026, 10, 1), DueDate: date(2026, 10, 10)},
		{ID: "i3", InvoiceNumber: "INV-003", Currency: "usd", Status: entity.InvoiceStatusSent, Total: d("20"), IssueDate: date(2026, 10, 5), DueDate: date(2026, 11, 5)},
		{ID: "i4", InvoiceNumber: "INV-004", Currency: "EUR", Status: entity.InvoiceStatusDraft, Total: d("70"), IssueDate: date(2026, 10, 6), DueDate: date(2026, 11, 6)},
	}
	for _, inv := range invoices {
		require.NoError(t, repos.Invoices.Create(ctx, inv))
	}
	require.NoError(t, repos.Accounts.Create(ctx, &entity.BankAccount{ID: "a1", Name: "Principal", Currency: "USD", Balance: d("1000")}))
	require.NoError(t, repos.Accounts.Create(ctx, &entity.BankAccount{ID: "a2", Name: "Ahorro", Currency: "USD", Balance: d("250.5")}))
	require.NoError(t, repos.Accounts.Create(ctx, &entity.BankAccount{ID: "a3", Name: "Europa", Currency: "EUR", Balance: d("10")}))
	require.NoError(t, repos.Payments.Create(ctx, &entity.Payment{ID: "p1", AccountID: "a1", Amount: d("30"), Status: entity.PaymentPending}))
	require.NoError(t, repos.Payments.Create(ctx, &entity.Payment{ID: "p2", AccountID: "a1", Amount: d("80"), Status: entity.PaymentCompleted}))
	require.NoError(t, repos.Leaves.Create(ctx, &entity.LeaveRequest{ID: "l1", Status: entity.LeavePending, StartDate: date(2026, 11, 2), EndDate: date(2026, 11, 3)}))
	require.NoError(t, repos.Leaves.Create(ctx, &entity.LeaveRequest{ID: "l2", Status: entity.LeaveApproved, StartDate: date(2026, 10, 13), EndDate: date(2026, 10, 14)}))
	require.NoError(t, repos.Announcements.Create(ctx, &entity.Announcement{ID: "n1", Title: "Aviso"}))

	uc := analytics.NewDashboardUseCase(repos, access.NewAuthorizer(repos.Roles, repos.Settings)).
		WithClock(func() time.Time { return now })
	return repos, uc
}

func TestDashboard_AdminVeTodasLasSecciones(t *testing.T) {
	_, uc := seed(t)
	out, err := uc.GetSummary(context.Background(), &entity.User{ID: "root", Role: entity.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, "Octubre 2026", out.DateLabel)
	require.NotNil(t, out.Invoices)
	assert.Equal(t, 4, out.Invoices.Count)
	assert.Equal(t, map[string]int{"paid": 1, "overdue": 1, "sent": 1, "draft": 1}, out.Invoices.ByStatus)

	require.Len(t, out.Invoices.Totals, 2)
	eur, usd := out.Invoices.Totals[0], out.Invoices.Totals[1]
	assert.Equal(t, "EUR", eur.Currency)
	assert.True(t, eur.Billed.Equal(d("70")))
	assert.True(t, eur.Outstanding.IsZero(), "un borrador no está pendiente de cobro")
	assert.Equal(t, "USD", usd.Currency)
	assert.True(t, usd.Billed.Equal(d("170.26")))
	assert.True(t, usd.Collected.Equal(d("100")))
	assert.True(t, usd.Outstanding.Equal(d("70.26")))
	assert.True(t, usd.Overdue.Equal(d("50.26")))
	assert.True(t, usd.MonthlyBilled.Equal(d("70.26")))

	require.Len(t, out.Accounts, 2)
	assert.Equal(t, "EUR", out.Accounts[0].Currency)
	assert.Equal(t, 2, out.Accounts[1].Count)
	assert.True(t, out.Accounts[1].Amount.Equal(d("1250.5")))

	require.NotNil(t, out.Payments)
	assert.Equal(t, 1, out.Payments.Pending)
	assert.True(t, out.Payments.PendingAmount.Equal(d("30")))

	require.NotNil(t, out.HR)
	assert.Equal(t, 1, out.HR.OpenLeaves)
	assert.Equal(t, 1, out.HR.OnLeaveToday)
	assert.Equal(t, 1, out.HR.Announcements)
}

func TestDashboard_SeccionesSegunCapacidad(t *testing.T) {
	_, uc := seed(t)
	ctx := context.Background()

	out, err := uc.GetSummary(ctx, &entity.User{ID: "u-hr", Role: entity.RoleHR})
	require.NoError(t, err)
	assert.Nil(t, out.Invoices)
	assert.Nil(t, out.Accounts)
	assert.Nil(t, out.Payments)
	require.NotNil(t, out.HR)

	out, err = uc.GetSummary(ctx, &entity.User{ID: "u-1", Role: entity.RoleUser})
	require.NoError(t, err)
	assert.NotNil(t, out.Invoices)
	assert.Nil(t, out.Accounts)
	assert.Nil(t, out.HR)
}

func TestDashboard_RequiereCapacidadDashboard(t *testing.T) {
	_, uc := seed(t)
	_, err := uc.GetSummary(context.Background(), &entity.User{ID: "u-x", Role: "sin-panel"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetSummary(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
