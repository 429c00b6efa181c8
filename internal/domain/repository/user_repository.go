package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

// ErrNotFound is returned when no user has the requested id.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create persists u and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, u *entity.User) error
	List(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// Update overwrites every mutable column of u and refreshes UpdatedAt.
	Update(ctx context.Context, u *entity.User) error
	// Delete removes the user and returns the deleted record.
	Delete(ctx context.Context, id int64) (*entity.User, error)
}

// TxManager runs fn as one unit of work. The repository passed to fn is bound
// to that unit; returning an error rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repo UserRepository) error) error
}

// Store is a storage collaborator with an explicit lifecycle.
type Store interface {
	TxManager
	Users() UserRepository
	Close()
}
