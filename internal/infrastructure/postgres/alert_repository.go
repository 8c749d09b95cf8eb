package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.SecurityAlertRepository = (*SecurityAlertRepo)(nil)

// SecurityAlertRepo alertas de seguridad.
type SecurityAlertRepo struct {
	q Querier
}

func NewSecurityAlertRepository(q Querier) *SecurityAlertRepo {
	return &SecurityAlertRepo{q: q}
}

func (r *SecurityAlertRepo) Create(ctx context.Context, a *entity.SecurityAlert) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO security_alerts (id, kind, actor_email, message, acknowledged, version, created_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6)`,
		a.ID, a.Kind, a.ActorEmail, a.Message, a.Acknowledged, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert security alert: %w", err)
	}
	a.Version = 1
	return nil
}

func (r *SecurityAlertRepo) List(ctx context.Context) ([]*entity.SecurityAlert, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, kind, actor_email, message, acknowledged, version, created_at
		FROM security_alerts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list security alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.SecurityAlert
	for rows.Next() {
		var a entity.SecurityAlert
		if err := rows.Scan(&a.ID, &a.Kind, &a.ActorEmail, &a.Message, &a.Acknowledged, &a.Version, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan security alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *SecurityAlertRepo) Acknowledge(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE security_alerts SET acknowledged = TRUE, version = version + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ack security alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
