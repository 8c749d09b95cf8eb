package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// LeaveRequestRepository define el puerto de persistencia para LeaveRequest.
type LeaveRequestRepository interface {
	Create(ctx context.Context, leave *entity.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error)
	// List devuelve las solicitudes por fecha de inicio, más recientes primero.
	List(ctx context.Context) ([]*entity.LeaveRequest, error)
	Update(ctx context.Context, leave *entity.LeaveRequest) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementRepository define el puerto de persistencia para Announcement.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *entity.Announcement) error
	GetByID(ctx context.Context, id string) (*entity.Announcement, error)
	// List devuelve primero los fijados y luego por fecha de creación descendente.
	List(ctx context.Context) ([]*entity.Announcement, error)
	Update(ctx context.Context, a *entity.Announcement) error
	Delete(ctx context.Context, id string) error
}
