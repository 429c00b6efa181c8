package helpers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordManager_HashAndVerify(t *testing.T) {
	m := NewPasswordManager(bcrypt.MinCost)

	for _, pw := range []string{"pw1", "correct horse battery staple", "Pässwörd!", " "} {
		hash, err := m.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)

		ok, err := m.Verify(pw, hash)
		assert.NoError(t, err)
		assert.True(t, ok, "password %q should verify against its own hash", pw)
	}
}

func TestPasswordManager_VerifyMismatch(t *testing.T) {
	m := NewPasswordManager(bcrypt.MinCost)
	hash, err := m.Hash("pw2")
	require.NoError(t, err)

	ok, err := m.Verify("pw1", hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Verify("", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordManager_SaltIsRandom(t *testing.T) {
	m := NewPasswordManager(bcrypt.MinCost)

	h1, err := m.Hash("same")
	require.NoError(t, err)
	h2, err := m.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestPasswordManager_MalformedHashFailsClosed(t *testing.T) {
	m := NewPasswordManager(bcrypt.MinCost)

	for _, hash := range []string{"", "invalid_hash", "$2a$04$short", "plaintext-password"} {
		ok, err := m.Verify("pw1", hash)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrMalformedHash), "hash %q should be reported as malformed", hash)
	}
}

func TestPasswordManager_Cost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordManager(0).Cost())
	assert.Equal(t, bcrypt.MinCost, NewPasswordManager(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewPasswordManager(99).Cost())

	m := NewPasswordManager(5)
	hash, err := m.Hash("pw1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestPasswordManager_TooLong(t *testing.T) {
	m := NewPasswordManager(bcrypt.MinCost)
	_, err := m.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.Error(t, err)
}
