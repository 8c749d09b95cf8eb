package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

const (
	settingsFreezeKey  = "freeze"
	settingsCompanyKey = "company"
)

// SettingsRepo singletons en app_settings (clave -> JSONB versionado).
type SettingsRepo struct {
	q Querier
}

func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) GetFreezeSettings(ctx context.Context) (*entity.FreezeSettings, error) {
	var fs entity.FreezeSettings
	ver, err := r.load(ctx, settingsFreezeKey, &fs)
	if err != nil {
		return nil, err
	}
	fs.Version = ver
	return &fs, nil
}

func (r *SettingsRepo) SaveFreezeSettings(ctx context.Context, fs *entity.FreezeSettings) error {
	next, err := r.save(ctx, settingsFreezeKey, fs, fs.Version, fs.UpdatedAt)
	if err != nil {
		return err
	}
	fs.Version = next
	return nil
}

func (r *SettingsRepo) GetCompany(ctx context.Context) (*entity.Company, error) {
	var c entity.Company
	ver, err := r.load(ctx, settingsCompanyKey, &c)
	if err != nil {
		return nil, err
	}
	c.ID = entity.CompanyProfileID
	c.Version = ver
	return &c, nil
}

func (r *SettingsRepo) SaveCompany(ctx context.Context, c *entity.Company) error {
	c.ID = entity.CompanyProfileID
	next, err := r.save(ctx, settingsCompanyKey, c, c.Version, c.UpdatedAt)
	if err != nil {
		return err
	}
	c.Version = next
	return nil
}

// load decodifica el valor en dst; clave ausente deja dst en cero y versión 0.
func (r *SettingsRepo) load(ctx context.Context, key string, dst any) (int64, error) {
	var raw []byte
	var ver int64
	err := r.q.QueryRow(ctx, `SELECT value, version FROM app_settings WHERE key = $1`, key).Scan(&raw, &ver)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get setting %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return 0, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return ver, nil
}

// save inserta (versión esperada 0) o actualiza condicionado a la versión.
func (r *SettingsRepo) save(ctx context.Context, key string, v any, expected int64, at time.Time) (int64, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encode setting %s: %w", key, err)
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if expected == 0 {
		_, err := r.q.Exec(ctx, `INSERT INTO app_settings (key, value, version, updated_at) VALUES ($1, $2, 1, $3)`, key, raw, at)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, domain.ErrVersionConflict
			}
			return 0, fmt.Errorf("insert setting %s: %w", key, err)
		}
		return 1, nil
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE app_settings SET value = $2, version = version + 1, updated_at = $3
		WHERE key = $1 AND version = $4`, key, raw, at, expected)
	if err != nil {
		return 0, fmt.Errorf("update setting %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, domain.ErrVersionConflict
	}
	return expected + 1, nil
}
