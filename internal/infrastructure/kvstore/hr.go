package kvstore

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// LeaveRequestRepo solicitudes de ausencia, por fecha de inicio descendente.
type LeaveRequestRepo struct {
	c collection[entity.LeaveRequest]
}

func NewLeaveRequestRepository(s *Store) *LeaveRequestRepo {
	return &LeaveRequestRepo{c: collection[entity.LeaveRequest]{
		s:       s,
		key:     keyLeaveRequests,
		id:      func(l *entity.LeaveRequest) string { return l.ID },
		version: func(l *entity.LeaveRequest) *int64 { return &l.Version },
		less: func(a, b *entity.LeaveRequest) bool {
			if !a.StartDate.Equal(b.StartDate) {
				return a.StartDate.After(b.StartDate)
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
	}}
}

func (r *LeaveRequestRepo) Create(ctx context.Context, l *entity.LeaveRequest) error {
	return r.c.create(ctx, l, nil)
}
func (r *LeaveRequestRepo) GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error) {
	return r.c.get(ctx, id)
}
func (r *LeaveRequestRepo) List(ctx context.Context) ([]*entity.LeaveRequest, error) {
	return r.c.list(ctx)
}
func (r *LeaveRequestRepo) Update(ctx context.Context, l *entity.LeaveRequest) error {
	return r.c.update(ctx, l)
}
func (r *LeaveRequestRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// AnnouncementRepo avisos internos, fijados primero.
type AnnouncementRepo struct {
	c collection[entity.Announcement]
}

func NewAnnouncementRepository(s *Store) *AnnouncementRepo {
	return &AnnouncementRepo{c: collection[entity.Announcement]{
		s:       s,
		key:     keyAnnouncements,
		id:      func(a *entity.Announcement) string { return a.ID },
		version: func(a *entity.Announcement) *int64 { return &a.Version },
		less: func(a, b *entity.Announcement) bool {
			if a.Pinned != b.Pinned {
				return a.Pinned
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
	}}
}

func (r *AnnouncementRepo) Create(ctx context.Context, a *entity.Announcement) error {
	return r.c.create(ctx, a, nil)
}
func (r *AnnouncementRepo) GetByID(ctx context.Context, id string) (*entity.Announcement, error) {
	return r.c.get(ctx, id)
}
func (r *AnnouncementRepo) List(ctx context.Context) ([]*entity.Announcement, error) {
	return r.c.list(ctx)
}
func (r *AnnouncementRepo) Update(ctx context.Context, a *entity.Announcement) error {
	return r.c.update(ctx, a)
}
func (r *AnnouncementRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

var (
	_ repository.LeaveRequestRepository = (*LeaveRequestRepo)(nil)
	_ repository.AnnouncementRepository = (*AnnouncementRepo)(nil)
)
