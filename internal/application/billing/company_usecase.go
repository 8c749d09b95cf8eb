package billing

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// CompanyUseCase perfil de la empresa emisora (singleton).
type CompanyUseCase struct {
	settings repository.SettingsRepository
	authz    *access.Authorizer
}

func NewCompanyUseCase(settings repository.SettingsRepository, authz *access.Authorizer) *CompanyUseCase {
	return &CompanyUseCase{settings: settings, authz: authz}
}

// Get devuelve el perfil; cualquier actor autenticado puede leerlo.
func (uc *CompanyUseCase) Get(ctx context.Context) (*entity.Company, error) {
	return uc.settings.GetCompany(ctx)
}

// Update reemplaza el perfil. Requiere la capacidad settings.
func (uc *CompanyUseCase) Update(ctx context.Context, actor *entity.User, in dto.CompanyRequest) (*entity.Company, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapSettings); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	company, err := uc.settings.GetCompany(ctx)
	if err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != company.Version {
		return nil, domain.ErrVersionConflict
	}
	company.Name = strings.TrimSpace(in.Name)
	company.LogoDataURI = in.LogoDataURI
	company.Address = strings.TrimSpace(in.Address)
	company.City = strings.TrimSpace(in.City)
	company.Country = strings.TrimSpace(in.Country)
	company.Phone = strings.TrimSpace(in.Phone)
	company.Email = strings.TrimSpace(in.Email)
	company.Website = strings.TrimSpace(in.Website)
	company.TaxID = strings.TrimSpace(in.TaxID)
	company.UpdatedAt = time.Now().UTC()
	if err := uc.settings.SaveCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}
