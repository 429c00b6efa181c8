package application

import (
	"context"
	"expvar"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/internal/domain/event"
	repo "github.com/oksasatya/go-user-directory/internal/domain/repository"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

var metrics = expvar.NewMap("users")

// PasswordHasher is the credential manager used by the service.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A non-nil error means the
	// hash could not be checked, not that the password was wrong.
	Verify(plain, hash string) (bool, error)
}

// EventPublisher delivers user lifecycle events. helpers.RabbitPublisher satisfies it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Service struct {
	Store     repo.Store
	Passwords PasswordHasher
	Events    EventPublisher
	Logger    *logrus.Logger

	// AlwaysRehash replaces the stored hash on every password submission,
	// even when the submitted password matches the current one.
	AlwaysRehash bool
}

type Option func(*Service)

// WithEvents publishes lifecycle events through p after each committed mutation.
func WithEvents(p EventPublisher) Option { return func(s *Service) { s.Events = p } }

func WithAlwaysRehash(v bool) Option { return func(s *Service) { s.AlwaysRehash = v } }

func NewService(store repo.Store, passwords PasswordHasher, logger *logrus.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Service{Store: store, Passwords: passwords, Logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateUserInput struct {
	Name     string
	Email    *string
	Age      int
	Password string
}

func validatePassword(pw string) error {
	if pw == "" {
		return errors.WithMessage(ErrInvalidInput, "password is required")
	}
	if len(pw) > helpers.MaxPasswordBytes {
		return errors.WithMessagef(ErrInvalidInput, "password must be at most %d bytes", helpers.MaxPasswordBytes)
	}
	return nil
}

// Create hashes the password and persists a new user. The storage layer assigns the id.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if in.Name == "" {
		return nil, errors.WithMessage(ErrInvalidInput, "name is required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.Passwords.Hash(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &entity.User{Name: in.Name, Email: in.Email, Age: in.Age, PasswordHash: hash}
	if err := s.Store.WithinTx(ctx, func(r repo.UserRepository) error {
		return r.Create(ctx, u)
	}); err != nil {
		return nil, errors.Wrap(err, "create user")
	}

	metrics.Add("created", 1)
	s.Logger.WithField("user_id", u.ID).Info("user created")
	s.publish(ctx, event.UserCreated, u, nil)
	return u, nil
}

// List returns every user in storage order.
func (s *Service) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return u, nil
}

// Update applies the fields present in patch. A submitted password is only
// rehashed when it does not verify against the stored hash, unless
// AlwaysRehash is set.
func (s *Service) Update(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, errors.WithMessage(ErrInvalidInput, "name must not be empty")
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
	}

	var (
		updated  *entity.User
		changed  []string
		rehashed bool
	)
	err := s.Store.WithinTx(ctx, func(r repo.UserRepository) error {
		u, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		changed, rehashed = nil, false
		if patch.Name != nil {
			u.Name = *patch.Name
			changed = append(changed, "name")
		}
		if patch.Age != nil {
			u.Age = *patch.Age
			changed = append(changed, "age")
		}
		if patch.Email != nil {
			email := *patch.Email
			u.Email = &email
			changed = append(changed, "email")
		}
		if patch.Password != nil {
			rehash, err := s.passwordNeedsRehash(id, *patch.Password, u.PasswordHash)
			if err != nil {
				return err
			}
			if rehash {
				hash, err := s.Passwords.Hash(*patch.Password)
				if err != nil {
					return errors.Wrap(err, "hash password")
				}
				u.PasswordHash = hash
				changed = append(changed, "password")
				rehashed = true
			}
		}

		updated = u
		if len(changed) == 0 {
			return nil
		}
		return r.Update(ctx, u)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "update user")
	}

	if len(changed) > 0 {
		metrics.Add("updated", 1)
		if rehashed {
			metrics.Add("password_rehashed", 1)
		}
		s.Logger.WithFields(logrus.Fields{"user_id": id, "changed": changed}).Info("user updated")
		s.publish(ctx, event.UserUpdated, updated, changed)
	}
	return updated, nil
}

func (s *Service) passwordNeedsRehash(id int64, plain, stored string) (bool, error) {
	if s.AlwaysRehash {
		return true, nil
	}
	same, err := s.Passwords.Verify(plain, stored)
	if err != nil {
		if errors.Is(err, helpers.ErrMalformedHash) {
			s.Logger.WithField("user_id", id).Warn("stored password hash is malformed; replacing it")
			return true, nil
		}
		return false, errors.Wrap(err, "verify password")
	}
	return !same, nil
}

// Delete permanently removes the user and returns a confirmation message.
func (s *Service) Delete(ctx context.Context, id int64) (string, error) {
	var deleted *entity.User
	err := s.Store.WithinTx(ctx, func(r repo.UserRepository) error {
		u, err := r.Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = u
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", errors.Wrap(err, "delete user")
	}

	metrics.Add("deleted", 1)
	s.Logger.WithField("user_id", id).Info("user deleted")
	s.publish(ctx, event.UserDeleted, deleted, nil)
	return fmt.Sprintf("User `%s` has been deleted", deleted.Name), nil
}

// publish is best-effort: the mutation is already committed.
func (s *Service) publish(ctx context.Context, t event.Type, u *entity.User, changed []string) {
	if s.Events == nil {
		return
	}
	ev := event.NewUserEvent(uuid.NewString(), t, u, changed, time.Now())

	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.Events.PublishJSON(c, ev); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "event": t}).Warn("publish user event failed")
	}
}
