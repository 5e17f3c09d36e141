package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"cryptem/configs"
	"cryptem/internal/database"
	"cryptem/internal/domain"
	"cryptem/internal/repository"
)

// UserStore is the selected user repository and its backing pool, if any
type UserStore struct {
	Users domain.UserRepository
	Pool  *pgxpool.Pool
}

// OpenUserStore uses Postgres when a database URL is set, otherwise the JSON file
func OpenUserStore(ctx context.Context, cfg configs.StorageConfig, log logrus.FieldLogger) (*UserStore, error) {
	if cfg.DatabaseURL == "" {
		log.WithField("path", cfg.UsersFile).Info("[OK] Using JSON file user store")
		return &UserStore{Users: repository.NewUserFileRepository(cfg.UsersFile)}, nil
	}

	pool, err := NewDatabase(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("[OK] Using PostgreSQL user store")
	return &UserStore{
		Users: repository.NewUserRepository(pool),
		Pool:  pool,
	}, nil
}

// Ping checks the database; the file store is always reachable
func (s *UserStore) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return nil
	}
	return s.Pool.Ping(ctx)
}

// Close releases the database pool
func (s *UserStore) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}
