package admin

import (
	"context"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// SettingsUseCase configuración de congelamiento y alertas de seguridad. Consultar requiere la
// capacidad admin; modificar, el rol admin.
type SettingsUseCase struct {
	settings repository.SettingsRepository
	alerts   repository.SecurityAlertRepository
	authz    *access.Authorizer
	log      *logger.Logger
}

func NewSettingsUseCase(settings repository.SettingsRepository, alerts repository.SecurityAlertRepository, authz *access.Authorizer, log *logger.Logger) *SettingsUseCase {
	return &SettingsUseCase{settings: settings, alerts: alerts, authz: authz, log: log.Component("admin")}
}

func (uc *SettingsUseCase) Freeze(ctx context.Context, actor *entity.User) (*entity.FreezeSettings, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapAdmin); err != nil {
		return nil, err
	}
	return uc.settings.GetFreezeSettings(ctx)
}

// UpdateFreeze reemplaza los seis flags. Aplica de inmediato: el autorizador relee la configuración en cada chequeo.
func (uc *SettingsUseCase) UpdateFreeze(ctx context.Context, actor *entity.User, in dto.FreezeSettingsRequest) (*entity.FreezeSettings, error) {
	if err := uc.authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := uc.settings.GetFreezeSettings(ctx)
	if err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != current.Version {
		return nil, domain.ErrVersionConflict
	}
	current.PaidInvoices = in.PaidInvoices
	current.SavedClients = in.SavedClients
	current.CompletedPayments = in.CompletedPayments
	current.FinalizedReports = in.FinalizedReports
	current.ConfirmedOrders = in.ConfirmedOrders
	current.ProcessedTransactions = in.ProcessedTransactions
	current.UpdatedAt = time.Now().UTC()
	current.UpdatedBy = actor.Email
	if err := uc.settings.SaveFreezeSettings(ctx, current); err != nil {
		return nil, err
	}
	uc.log.Info().Str("actor", actor.Email).Interface("freeze", current).Msg("configuración de congelamiento actualizada")
	return current, nil
}

func (uc *SettingsUseCase) Alerts(ctx context.Context, actor *entity.User) ([]*entity.SecurityAlert, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapAdmin); err != nil {
		return nil, err
	}
	return uc.alerts.List(ctx)
}

func (uc *SettingsUseCase) AcknowledgeAlert(ctx context.Context, actor *entity.User, id string) error {
	if err := uc.authz.RequireAdmin(actor); err != nil {
		return err
	}
	return uc.alerts.Acknowledge(ctx, id)
}
