package entity

import (
	"time"
)

// User is the aggregate root for user domain
// PasswordHash only ever holds bcrypt output and is never serialized.
type User struct {
	ID           int64
	Name         string
	Email        *string
	Age          int
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Email != nil {
		e := *u.Email
		c.Email = &e
	}
	return &c
}

// UserPatch carries a partial update. Nil fields are left unchanged.
type UserPatch struct {
	Name     *string
	Age      *int
	Email    *string
	Password *string
}

// IsEmpty reports whether the patch touches no field.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.Email == nil && p.Password == nil
}
