package container

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-directory/config"
	"github.com/oksasatya/go-user-directory/internal/infrastructure/memory"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), &config.Config{StorageDriver: "memory"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	store.Close()
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StorageDriver: "sqlite"}, quietLogger())
	assert.Error(t, err)
}

func TestContainer_UserService(t *testing.T) {
	cfg := &config.Config{BcryptCost: 4, PasswordAlwaysRehash: true}
	c := New(cfg, quietLogger(), memory.New())
	defer c.Close()

	svc := c.UserService()
	assert.Same(t, svc, c.UserService())
	assert.True(t, svc.AlwaysRehash)
	assert.Nil(t, svc.Events)
	assert.Equal(t, 4, c.Passwords.Cost())
}
