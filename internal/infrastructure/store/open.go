// Package store abre el Record Store configurado (memoria, archivos JSON o PostgreSQL).
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// Open construye los repositorios según cfg.Store.Driver. La función devuelta libera el pool (no-op en los drivers locales).
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Repositories, func(), error) {
	l := log.Component("store")
	switch cfg.Store.Driver {
	case config.StoreMemory:
		l.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return kvstore.New(kvstore.NewMemoryBackend()).Repositories(), func() {}, nil

	case config.StoreFile:
		backend, err := kvstore.NewFileBackend(cfg.Store.FilePath)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		l.Info().Str("path", cfg.Store.FilePath).Msg("store en archivos JSON")
		return kvstore.New(backend).Repositories(), func() {}, nil

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return repository.Repositories{}, nil, fmt.Errorf("migraciones: %w", err)
		}
		l.Info().Strs("migrations", applied).Msg("store PostgreSQL listo")
		return postgres.NewRepositories(pool), pool.Close, nil
	}
	return repository.Repositories{}, nil, fmt.Errorf("store: driver desconocido %q", cfg.Store.Driver)
}
