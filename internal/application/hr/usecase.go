// Package hr contiene los casos de uso de recursos humanos: solicitudes de ausencia y avisos internos.
// Todas las operaciones exigen la capacidad hr.
package hr

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// HRUseCase ausencias y avisos.
type HRUseCase struct {
	leaves  repository.LeaveRequestRepository
	notices repository.AnnouncementRepository
	authz   *access.Authorizer
	log     *logger.Logger
	now     func() time.Time
}

func NewHRUseCase(leaves repository.LeaveRequestRepository, notices repository.AnnouncementRepository, authz *access.Authorizer, log *logger.Logger) *HRUseCase {
	return &HRUseCase{
		leaves:  leaves,
		notices: notices,
		authz:   authz,
		log:     log.Component("hr"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *HRUseCase) WithClock(now func() time.Time) *HRUseCase {
	uc.now = now
	return uc
}

func (uc *HRUseCase) applyLeave(l *entity.LeaveRequest, in dto.LeaveRequestInput) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	v := domain.NewValidationError()
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		v.Add("start_date", "fecha inválida, formato "+dateLayout)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		v.Add("end_date", "fecha inválida, formato "+dateLayout)
	}
	if v.Empty() && end.Before(start) {
		v.Add("end_date", "no puede ser anterior a la fecha de inicio")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	l.EmployeeName = strings.TrimSpace(in.EmployeeName)
	l.EmployeeEmail = strings.ToLower(strings.TrimSpace(in.EmployeeEmail))
	l.Kind = in.Kind
	l.StartDate = start
	l.EndDate = end
	l.Reason = strings.TrimSpace(in.Reason)
	return nil
}

// CreateLeave registra una solicitud pendiente.
func (uc *HRUseCase) CreateLeave(ctx context.Context, actor *entity.User, in dto.LeaveRequestInput) (*entity.LeaveRequest, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapHR); err != nil {
		return nil, err
	}
	now := uc.now()
	leave := &entity.LeaveRequest{
		ID:        uuid.New().String(),
		Status:    entity.LeavePending,
		CreatedBy: actor.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.applyLeave(leave, in); err != nil {
		return nil, err
	}
	if err := uc.leaves.Create(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

// GetLeave obtiene una solicitud por ID.
func (uc *HRUseCase) GetLeave(ctx context.Context, actor *entity.User, id string) (*entity.LeaveRequest, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapHR); err != nil {
		return nil, err
	}
	leave, err := uc.leaves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave == nil {
		return nil, domain.ErrNotFound
	}
	return leave, nil
}

// ListLeaves lista las solicitudes; status vacío no filtra.
func (uc *HRUseCase) ListLeaves(ctx context.Context, actor *entity.User, status string) ([]*entity.LeaveRequest, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapHR); err != nil {
		return nil, err
	}
	all, err := uc.leaves.List(ctx)
	if err != nil || status == "" {
		return all, err
	}
	out := make([]*entity.LeaveRequest, 0, len(all))
	for _, l := range all {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

// UpdateLeave edita una solicitud que sigue pendiente.
func (uc *HRUseCase) UpdateLeave(ctx context.Context, actor *entity.User, id string, in dto.LeaveRequestInput) (*entity.LeaveRequest, error) {
	leave, err := uc.GetLeave(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !leave.Open() {
		return nil, domain.ErrConflict
	}
	if in.Version != 0 && in.Version != leave.Version {
		return nil, domain.ErrVersionConflict
	}
	if err := uc.applyLeave(leave, in); err != nil {
		return nil, err
	}
	leave.UpdatedAt = uc.now()
	if err := uc.leaves.Update(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

// ReviewLeave aprueba o rechaza una solicitud pendiente. Una solicitud revisada no vuelve a pendiente.
func (uc *HRUseCase) ReviewLeave(ctx context.Context, actor *entity.User, id string, in dto.LeaveReviewRequest) (*entity.LeaveRequest, error) {
	leave, err := uc.GetLeave(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !leave.Open() {
		return nil, domain.ErrConflict
	}
	if in.Version != 0 && in.Version != leave.Version {
		return nil, domain.ErrVersionConflict
	}
	now := uc.now()
	leave.Status = entity.LeaveRejected
	if in.Approve {
		leave.Status = entity.LeaveApproved
	}
	leave.ReviewedBy = actor.Email
	leave.ReviewedAt = &now
	leave.UpdatedAt = now
	if err := uc.leaves.Update(ctx, leave); err != nil {
		return nil, err
	}
	uc.log.Info().Str("leave", leave.ID).Str("status", leave.Status).Str("by", actor.Email).Msg("solicitud de ausencia revisada")
	return leave, nil
}

// DeleteLeave elimina una solicitud.
func (uc *HRUseCase) DeleteLeave(ctx context.Context, actor *entity.User, id string) error {
	if _, err := uc.GetLeave(ctx, actor, id); err != nil {
		return err
	}
	return uc.leaves.Delete(ctx, id)
}

func applyAnnouncement(a *entity.Announcement, in dto.AnnouncementRequest) {
	a.Title = strings.TrimSpace(in.Title)
	a.Body = strings.TrimSpace(in.Body)
	a.Pinned = in.Pinned
}

// CreateAnnouncement publica un aviso firmado por el actor.
func (uc *HRUseCase) CreateAnnouncement(ctx context.Context, actor *entity.User, in dto.AnnouncementRequest) (*entity.Announcement, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapHR); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	a := &entity.Announcement{ID: uuid.New().String(), Author: actor.Email, CreatedAt: now, UpdatedAt: now}
	applyAnnouncement(a, in)
	if err := uc.notices.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetAnnouncement obtiene un aviso por ID.
func (uc *HRUseCase) GetAnnouncement(ctx context.Context, actor *entity.User, id string) (*entity.Announcement, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapHR); err != nil {
		return nil, err
	}
	a, err := uc.notices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// ListAnnouncements fijados primero, luego los más recientes.
func (uc *HRUseCase) ListAnnouncements(ctx context.Context, actor *entity.User) ([]*entity.Announcement, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapHR); err != nil {
		return nil, err
	}
	return uc.notices.List(ctx)
}

func (uc *HRUseCase) UpdateAnnouncement(ctx context.Context, actor *entity.User, id string, in dto.AnnouncementRequest) (*entity.Announcement, error) {
	a, err := uc.GetAnnouncement(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != a.Version {
		return nil, domain.ErrVersionConflict
	}
	applyAnnouncement(a, in)
	a.UpdatedAt = uc.now()
	if err := uc.notices.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *HRUseCase) DeleteAnnouncement(ctx context.Context, actor *entity.User, id string) error {
	if _, err := uc.GetAnnouncement(ctx, actor, id); err != nil {
		return err
	}
	return uc.notices.Delete(ctx, id)
}
