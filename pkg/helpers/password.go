package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest plaintext bcrypt accepts.
const MaxPasswordBytes = 72

// ErrMalformedHash is returned by Verify when the stored hash was not produced
// by PasswordManager. Verification still fails closed.
var ErrMalformedHash = errors.New("malformed password hash")

// PasswordManager hashes plaintext passwords with bcrypt and verifies them.
// Each Hash call uses a fresh random salt.
type PasswordManager struct {
	cost int
}

// NewPasswordManager returns a manager with the given bcrypt cost.
// A zero cost selects bcrypt.DefaultCost; other values are clamped to the valid range.
func NewPasswordManager(cost int) *PasswordManager {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordManager{cost: cost}
}

// Cost returns the bcrypt cost used for new hashes.
func (m *PasswordManager) Cost() int { return m.cost }

// Hash hashes the plain text password using bcrypt
func (m *PasswordManager) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), m.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a plain password with a bcrypt hash.
// A mismatch is (false, nil); an unparsable hash is (false, ErrMalformedHash).
func (m *PasswordManager) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Join(ErrMalformedHash, err)
	}
}
