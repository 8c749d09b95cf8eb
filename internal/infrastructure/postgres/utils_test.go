package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/config"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestExpectDeleted(t *testing.T) {
	assert.NoError(t, expectDeleted(pgconn.NewCommandTag("DELETE 1"), nil, "x"))
	assert.ErrorIs(t, expectDeleted(pgconn.NewCommandTag("DELETE 0"), nil, "x"), domain.ErrNotFound)
	assert.ErrorIs(t, expectDeleted(pgconn.CommandTag{}, &pgconn.PgError{Code: "23503"}, "x"), domain.ErrInUse)
}

func TestCapabilitiesRoundTrip(t *testing.T) {
	caps := []entity.Capability{entity.CapInvoices, entity.CapReports}
	assert.Equal(t, caps, stringsToCapabilities(capabilitiesToStrings(caps)))
}

// Integración: solo corre con TEST_DATABASE_URL apuntando a una base desechable.
func testRepos(t *testing.T) repository.Repositories {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = Migrate(ctx, pool)
	require.NoError(t, err)
	return NewRepositories(pool)
}

func TestIntegration_FacturaVersionYNumero(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	client := &entity.Client{ID: uuid.NewString(), Name: "Acme", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Clients.Create(ctx, client))

	num := "INV-" + uuid.NewString()[:8]
	inv := &entity.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: num,
		ClientID:      client.ID,
		IssueDate:     now,
		DueDate:       now,
		Items:         []entity.InvoiceItem{{ID: "i1", Description: "A", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100)}},
		Status:        entity.InvoiceStatusDraft,
		Currency:      "USD",
		Total:         decimal.RequireFromString("215"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repos.Invoices.Create(ctx, inv))

	dup := *inv
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repos.Invoices.Create(ctx, &dup), domain.ErrDuplicate)

	a, err := repos.Invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	b, err := repos.Invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NoError(t, repos.Invoices.Update(ctx, a))
	assert.ErrorIs(t, repos.Invoices.Update(ctx, b), domain.ErrVersionConflict)
	assert.True(t, a.Total.Equal(decimal.NewFromInt(215)))

	assert.ErrorIs(t, repos.Clients.Delete(ctx, client.ID), domain.ErrInUse)
}

func TestIntegration_AusenciaVersionYOrden(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	day := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	leave := &entity.LeaveRequest{
		ID: uuid.NewString(), EmployeeName: "Ana", EmployeeEmail: "ana@acme.com", Kind: entity.LeaveVacation,
		StartDate: day, EndDate: day.AddDate(0, 0, 4), Status: entity.LeavePending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Leaves.Create(ctx, leave))

	got, err := repos.Leaves.GetByID(ctx, leave.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Days())
	assert.Nil(t, got.ReviewedAt)

	stale := *got
	got.Status = entity.LeaveApproved
	got.ReviewedAt = &now
	require.NoError(t, repos.Leaves.Update(ctx, got))
	assert.ErrorIs(t, repos.Leaves.Update(ctx, &stale), domain.ErrVersionConflict)

	require.NoError(t, repos.Leaves.Delete(ctx, leave.ID))
	assert.ErrorIs(t, repos.Leaves.Delete(ctx, leave.ID), domain.ErrNotFound)
}
