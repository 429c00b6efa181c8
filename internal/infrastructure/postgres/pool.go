package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/oksasatya/go-user-directory/internal/domain/repository"
)

func NewPool(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLife
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return pool, nil
}

// Store is the PostgreSQL storage collaborator. Every WithinTx call is its own
// pgx transaction; Users() runs single statements directly on the pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Users() repository.UserRepository {
	return NewUserRepository(s.pool)
}

// WithinTx begins a transaction, runs fn with a repository bound to it, and
// commits if fn succeeds. Reads inside the unit lock the selected rows.
func (s *Store) WithinTx(ctx context.Context, fn func(repo repository.UserRepository) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(newTxUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}
