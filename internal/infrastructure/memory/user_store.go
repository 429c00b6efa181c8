// Package memory provides an in-memory storage collaborator for tests and
// local development.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/internal/domain/repository"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memory store closed")

type state struct {
	users  map[int64]*entity.User
	nextID int64
}

func (s *state) clone() *state {
	c := &state{users: make(map[int64]*entity.User, len(s.users)), nextID: s.nextID}
	for id, u := range s.users {
		c.users[id] = u.Clone()
	}
	return c
}

// Store keeps users in a map guarded by one mutex. A unit of work holds the
// mutex for its whole duration and works on a copy that replaces the live
// state only when the unit succeeds.
type Store struct {
	mu     sync.Mutex
	st     *state
	now    func() time.Time
	closed bool
}

var _ repository.Store = (*Store)(nil)

// New creates an empty store. Ids start at 1.
func New() *Store {
	return &Store{
		st:  &state{users: make(map[int64]*entity.User), nextID: 1},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Users returns a repository whose operations each commit on their own.
func (s *Store) Users() repository.UserRepository {
	return &autoCommitRepo{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(repo repository.UserRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	work := s.st.clone()
	if err := fn(&stateRepo{st: work, now: s.now}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

type autoCommitRepo struct {
	store *Store
}

func (r *autoCommitRepo) do(ctx context.Context, fn func(repo *stateRepo) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.closed {
		return ErrClosed
	}
	return fn(&stateRepo{st: r.store.st, now: r.store.now})
}

func (r *autoCommitRepo) Create(ctx context.Context, u *entity.User) error {
	return r.do(ctx, func(repo *stateRepo) error { return repo.Create(ctx, u) })
}

func (r *autoCommitRepo) List(ctx context.Context) (users []*entity.User, err error) {
	err = r.do(ctx, func(repo *stateRepo) error {
		users, err = repo.List(ctx)
		return err
	})
	return users, err
}

func (r *autoCommitRepo) GetByID(ctx context.Context, id int64) (u *entity.User, err error) {
	err = r.do(ctx, func(repo *stateRepo) error {
		u, err = repo.GetByID(ctx, id)
		return err
	})
	return u, err
}

func (r *autoCommitRepo) Update(ctx context.Context, u *entity.User) error {
	return r.do(ctx, func(repo *stateRepo) error { return repo.Update(ctx, u) })
}

func (r *autoCommitRepo) Delete(ctx context.Context, id int64) (u *entity.User, err error) {
	err = r.do(ctx, func(repo *stateRepo) error {
		u, err = repo.Delete(ctx, id)
		return err
	})
	return u, err
}

// stateRepo operates on st without locking; callers hold the store mutex.
type stateRepo struct {
	st  *state
	now func() time.Time
}

func (r *stateRepo) Create(_ context.Context, u *entity.User) error {
	now := r.now()
	u.ID = r.st.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.st.nextID++
	r.st.users[u.ID] = u.Clone()
	return nil
}

func (r *stateRepo) List(_ context.Context) ([]*entity.User, error) {
	users := make([]*entity.User, 0, len(r.st.users))
	for _, u := range r.st.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *stateRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *stateRepo) Update(_ context.Context, u *entity.User) error {
	cur, ok := r.st.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.now()
	r.st.users[u.ID] = u.Clone()
	return nil
}

func (r *stateRepo) Delete(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.st.users, id)
	return u, nil
}
