package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var (
	_ repository.LeaveRequestRepository = (*LeaveRequestRepo)(nil)
	_ repository.AnnouncementRepository = (*AnnouncementRepo)(nil)
)

// LeaveRequestRepo implementación de LeaveRequestRepository.
type LeaveRequestRepo struct {
	q Querier
}

func NewLeaveRequestRepository(q Querier) *LeaveRequestRepo {
	return &LeaveRequestRepo{q: q}
}

const leaveColumns = `id, employee_name, employee_email, kind, start_date, end_date, reason, status,
	reviewed_by, reviewed_at, version, created_by, created_at, updated_at`

func (r *LeaveRequestRepo) Create(ctx context.Context, l *entity.LeaveRequest) error {
	_, err := r.q.Exec(ctx, `INSERT INTO leave_requests (`+leaveColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12, $13)`,
		l.ID, l.EmployeeName, l.EmployeeEmail, l.Kind, l.StartDate, l.EndDate, l.Reason, l.Status,
		l.ReviewedBy, l.ReviewedAt, l.CreatedBy, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert leave request: %w", err)
	}
	l.Version = 1
	return nil
}

func (r *LeaveRequestRepo) GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error) {
	l, err := scanLeave(r.q.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get leave request: %w", err)
	}
	return l, nil
}

func (r *LeaveRequestRepo) List(ctx context.Context) ([]*entity.LeaveRequest, error) {
	rows, err := r.q.Query(ctx, `SELECT `+leaveColumns+` FROM leave_requests ORDER BY start_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.LeaveRequest
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LeaveRequestRepo) Update(ctx context.Context, l *entity.LeaveRequest) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE leave_requests
		SET employee_name = $2, employee_email = $3, kind = $4, start_date = $5, end_date = $6,
		    reason = $7, status = $8, reviewed_by = $9, reviewed_at = $10, updated_at = $11,
		    version = version + 1
		WHERE id = $1 AND version = $12`,
		l.ID, l.EmployeeName, l.EmployeeEmail, l.Kind, l.StartDate, l.EndDate,
		l.Reason, l.Status, l.ReviewedBy, l.ReviewedAt, l.UpdatedAt, l.Version,
	)
	if err != nil {
		return fmt.Errorf("update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return versionMiss(ctx, r.q, "leave_requests", l.ID)
	}
	l.Version++
	return nil
}

func (r *LeaveRequestRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	return expectDeleted(tag, err, "leave request")
}

func scanLeave(row pgx.Row) (*entity.LeaveRequest, error) {
	var l entity.LeaveRequest
	if err := row.Scan(&l.ID, &l.EmployeeName, &l.EmployeeEmail, &l.Kind, &l.StartDate, &l.EndDate, &l.Reason,
		&l.Status, &l.ReviewedBy, &l.ReviewedAt, &l.Version, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// AnnouncementRepo implementación de AnnouncementRepository.
type AnnouncementRepo struct {
	q Querier
}

func NewAnnouncementRepository(q Querier) *AnnouncementRepo {
	return &AnnouncementRepo{q: q}
}

const announcementColumns = `id, title, body, pinned, author, version, created_at, updated_at`

func (r *AnnouncementRepo) Create(ctx context.Context, a *entity.Announcement) error {
	_, err := r.q.Exec(ctx, `INSERT INTO announcements (`+announcementColumns+`)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7)`,
		a.ID, a.Title, a.Body, a.Pinned, a.Author, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	a.Version = 1
	return nil
}

func (r *AnnouncementRepo) GetByID(ctx context.Context, id string) (*entity.Announcement, error) {
	a, err := scanAnnouncement(r.q.QueryRow(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return a, nil
}

func (r *AnnouncementRepo) List(ctx context.Context) ([]*entity.Announcement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+announcementColumns+` FROM announcements ORDER BY pinned DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AnnouncementRepo) Update(ctx context.Context, a *entity.Announcement) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE announcements
		SET title = $2, body = $3, pinned = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $6`,
		a.ID, a.Title, a.Body, a.Pinned, a.UpdatedAt, a.Version)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return versionMiss(ctx, r.q, "announcements", a.ID)
	}
	a.Version++
	return nil
}

func (r *AnnouncementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	return expectDeleted(tag, err, "announcement")
}

func scanAnnouncement(row pgx.Row) (*entity.Announcement, error) {
	var a entity.Announcement
	if err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Pinned, &a.Author, &a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
