package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// SeedReport qué creó la siembra (todo en cero si ya estaba sembrado).
type SeedReport struct {
	RolesCreated   int
	AdminCreated   bool
	FreezeCreated  bool
	CompanyCreated bool
}

// Seed siembra roles predeterminados, configuración de congelamiento (todo apagado),
// un perfil de empresa provisional y el actor admin de la configuración. Es idempotente.
func Seed(ctx context.Context, repos repository.Repositories, cfg config.SeedConfig, log *logger.Logger) (*SeedReport, error) {
	report := &SeedReport{}
	now := time.Now().UTC()

	// ── 1. Roles ───
	for _, role := range entity.DefaultRoles(now) {
		existing, err := repos.Roles.GetByID(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("seed: rol %s: %w", role.ID, err)
		}
		if existing != nil {
			continue
		}
		if err := repos.Roles.Create(ctx, role); err != nil {
			return nil, fmt.Errorf("seed: crear rol %s: %w", role.ID, err)
		}
		report.RolesCreated++
	}

	// ── 2. Singletons ───
	freeze, err := repos.Settings.GetFreezeSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: congelamiento: %w", err)
	}
	if freeze.Version == 0 {
		freeze.UpdatedAt = now
		freeze.UpdatedBy = "seed"
		if err := repos.Settings.SaveFreezeSettings(ctx, freeze); err != nil {
			return nil, fmt.Errorf("seed: guardar congelamiento: %w", err)
		}
		report.FreezeCreated = true
	}
	company, err := repos.Settings.GetCompany(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: empresa: %w", err)
	}
	if company.Version == 0 {
		company.ID = entity.CompanyProfileID
		if company.Name == "" {
			company.Name = "Mi Empresa"
		}
		company.UpdatedAt = now
		if err := repos.Settings.SaveCompany(ctx, company); err != nil {
			return nil, fmt.Errorf("seed: guardar empresa: %w", err)
		}
		report.CompanyCreated = true
	}

	// ── 3. Admin ───
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		log.Warn().Msg("seed: SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD vacíos, no se crea administrador")
		return report, nil
	}
	existing, err := repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("seed: buscar admin: %w", err)
	}
	if existing != nil {
		return report, nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repos.Users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("seed: crear admin: %w", err)
	}
	report.AdminCreated = true
	log.Info().Str("email", email).Int("roles", report.RolesCreated).Msg("seed: administrador creado")
	return report, nil
}
