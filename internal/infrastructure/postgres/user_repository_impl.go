package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/internal/domain/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, name, email, age, password_hash, created_at, updated_at`

type UserRepository struct {
	db        querier
	forUpdate bool
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

func newTxUserRepository(tx pgx.Tx) *UserRepository {
	return &UserRepository{db: tx, forUpdate: true}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, age, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Age, u.PasswordHash)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return pkgerrors.Wrap(err, "insert user")
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list users")
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "list users")
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if r.forUpdate {
		q += ` FOR UPDATE`
	}

	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, pkgerrors.Wrap(err, "get user")
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, age = $3, password_hash = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, u.Name, u.Email, u.Age, u.PasswordHash, u.ID)

	if err := row.Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return pkgerrors.Wrap(err, "update user")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, pkgerrors.Wrap(err, "delete user")
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
