package container

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/config"
	repo "github.com/oksasatya/go-user-directory/internal/domain/repository"
	"github.com/oksasatya/go-user-directory/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-user-directory/internal/infrastructure/postgres"
)

// OpenStore returns the storage selected by STORAGE_DRIVER. For postgres it
// connects the pool and applies migrations when RUN_MIGRATIONS is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repo.Store, error) {
	if cfg.UseMemoryStorage() {
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), nil
	}
	if cfg.StorageDriver != "postgres" {
		return nil, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.RunMigrations {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, errors.Wrap(err, "migrate")
		}
	}
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, err
	}
	return pginfra.NewStore(pool), nil
}
