package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// SecurityAlertRepository persiste las alertas de seguridad visibles para admins.
type SecurityAlertRepository interface {
	Create(ctx context.Context, alert *entity.SecurityAlert) error
	List(ctx context.Context) ([]*entity.SecurityAlert, error)
	Acknowledge(ctx context.Context, id string) error
}
