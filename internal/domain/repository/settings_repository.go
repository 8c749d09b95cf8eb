package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// SettingsRepository persiste los singletons: configuración de congelamiento y perfil de empresa.
// Las lecturas de singletons ausentes devuelven un valor cero (versión 0), nunca nil.
type SettingsRepository interface {
	GetFreezeSettings(ctx context.Context) (*entity.FreezeSettings, error)
	SaveFreezeSettings(ctx context.Context, settings *entity.FreezeSettings) error
	GetCompany(ctx context.Context) (*entity.Company, error)
	SaveCompany(ctx context.Context, company *entity.Company) error
}
