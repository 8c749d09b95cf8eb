package hr_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/hr"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

var (
	hrActor      = &entity.User{ID: "u-hr", Email: "rrhh@acme.com", Role: entity.RoleHR}
	financeActor = &entity.User{ID: "u-fin", Email: "fin@acme.com", Role: entity.RoleFinance}
	fixedNow     = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
)

func newUseCase(t *testing.T) *hr.HRUseCase {
	t.Helper()
	ctx := context.Background()
	repos := kvstore.New(kvstore.NewMemoryBackend()).Repositories()
	for _, r := range entity.DefaultRoles(fixedNow) {
		require.NoError(t, repos.Roles.Create(ctx, r))
	}
	authz := access.NewAuthorizer(repos.Roles, repos.Settings)
	return hr.NewHRUseCase(repos.Leaves, repos.Announcements, authz, logger.Nop()).
		WithClock(func() time.Time { return fixedNow })
}

func vacation(start, end string) dto.LeaveRequestInput {
	return dto.LeaveRequestInput{
		EmployeeName: "Ana Pérez", EmployeeEmail: "Ana@Acme.com", Kind: entity.LeaveVacation,
		StartDate: start, EndDate: end, Reason: "  viaje  ",
	}
}

func TestLeave_AltaPendienteYNormalizada(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	leave, err := uc.CreateLeave(ctx, hrActor, vacation("2026-11-02", "2026-11-06"))
	require.NoError(t, err)
	assert.Equal(t, entity.LeavePending, leave.Status)
	assert.Equal(t, "ana@acme.com", leave.EmployeeEmail)
	assert.Equal(t, "viaje", leave.Reason)
	assert.Equal(t, 5, leave.Days())
	assert.Equal(t, int64(1), leave.Version)
	assert.Equal(t, hrActor.Email, leave.CreatedBy)
}

func TestLeave_FechasInvertidasRechazadas(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.CreateLeave(context.Background(), hrActor, vacation("2026-11-06", "2026-11-02"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "end_date")

	in := vacation("2026-11-02", "2026-11-02")
	in.Kind = "sabático"
	_, err = uc.CreateLeave(context.Background(), hrActor, in)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "kind")
}

func TestLeave_RequiereCapacidadHR(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateLeave(ctx, financeActor, vacation("2026-11-02", "2026-11-03"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.ListLeaves(ctx, financeActor, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.ListAnnouncements(ctx, financeActor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.CreateAnnouncement(ctx, nil, dto.AnnouncementRequest{Title: "x", Body: "y"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLeave_RevisionCierraLaSolicitud(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	leave, err := uc.CreateLeave(ctx, hrActor, vacation("2026-11-02", "2026-11-06"))
	require.NoError(t, err)

	_, err = uc.ReviewLeave(ctx, hrActor, leave.ID, dto.LeaveReviewRequest{Approve: true, Version: 99})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	reviewed, err := uc.ReviewLeave(ctx, hrActor, leave.ID, dto.LeaveReviewRequest{Approve: true, Version: leave.Version})
	require.NoError(t, err)
	assert.Equal(t, entity.LeaveApproved, reviewed.Status)
	assert.Equal(t, hrActor.Email, reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, fixedNow, *reviewed.ReviewedAt)

	_, err = uc.ReviewLeave(ctx, hrActor, leave.ID, dto.LeaveReviewRequest{Approve: false})
	assert.ErrorIs(t, err, domain.ErrConflict, "una revisada no se vuelve a revisar")
	_, err = uc.UpdateLeave(ctx, hrActor, leave.ID, vacation("2026-11-03", "2026-11-04"))
	assert.ErrorIs(t, err, domain.ErrConflict, "una revisada no se edita")

	open, err := uc.ListLeaves(ctx, hrActor, entity.LeavePending)
	require.NoError(t, err)
	assert.Empty(t, open)
	approved, err := uc.ListLeaves(ctx, hrActor, entity.LeaveApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

func TestLeave_EdicionYBorrado(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	leave, err := uc.CreateLeave(ctx, hrActor, vacation("2026-11-02", "2026-11-06"))
	require.NoError(t, err)

	updated, err := uc.UpdateLeave(ctx, hrActor, leave.ID, vacation("2026-11-09", "2026-11-10"))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Days())
	assert.Equal(t, int64(2), updated.Version)

	require.NoError(t, uc.DeleteLeave(ctx, hrActor, leave.ID))
	_, err = uc.GetLeave(ctx, hrActor, leave.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteLeave(ctx, hrActor, leave.ID), domain.ErrNotFound)
}

func TestAnnouncement_FijadosPrimero(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	first, err := uc.CreateAnnouncement(ctx, hrActor, dto.AnnouncementRequest{Title: "Horario", Body: "Nuevo horario de verano", Pinned: true})
	require.NoError(t, err)
	assert.Equal(t, hrActor.Email, first.Author)

	later := fixedNow.Add(time.Hour)
	uc.WithClock(func() time.Time { return later })
	_, err = uc.CreateAnnouncement(ctx, hrActor, dto.AnnouncementRequest{Title: "Cumpleaños", Body: "Torta a las 4"})
	require.NoError(t, err)

	list, err := uc.ListAnnouncements(ctx, hrActor)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Horario", list[0].Title, "el fijado va primero aunque sea más antiguo")

	_, err = uc.UpdateAnnouncement(ctx, hrActor, first.ID, dto.AnnouncementRequest{Title: "Horario", Body: "x", Version: 7})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	edited, err := uc.UpdateAnnouncement(ctx, hrActor, first.ID, dto.AnnouncementRequest{Title: "Horario", Body: "Se mantiene", Version: first.Version})
	require.NoError(t, err)
	assert.False(t, edited.Pinned)
	assert.Equal(t, later, edited.UpdatedAt)

	require.NoError(t, uc.DeleteAnnouncement(ctx, hrActor, first.ID))
	list, err = uc.ListAnnouncements(ctx, hrActor)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
