package event

import (
	"time"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

// Type names a user lifecycle transition.
type Type string

const (
	UserCreated Type = "user.created"
	UserUpdated Type = "user.updated"
	UserDeleted Type = "user.deleted"
)

// UserEvent is the JSON payload published to RabbitMQ after a committed mutation.
// It never carries a password or hash.
type UserEvent struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Age        int       `json:"age"`
	Changed    []string  `json:"changed,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewUserEvent builds an event snapshot of u.
func NewUserEvent(id string, t Type, u *entity.User, changed []string, at time.Time) UserEvent {
	ev := UserEvent{
		ID:         id,
		Type:       t,
		UserID:     u.ID,
		Name:       u.Name,
		Age:        u.Age,
		Changed:    changed,
		OccurredAt: at.UTC(),
	}
	if u.Email != nil {
		ev.Email = *u.Email
	}
	return ev
}
