package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/config"
	userapp "github.com/oksasatya/go-user-directory/internal/application"
	repo "github.com/oksasatya/go-user-directory/internal/domain/repository"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
)

// Container holds the components built at startup and shared by the router
// modules. Binaries construct one and pass it down explicitly.
type Container struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Store     repo.Store
	Passwords *helpers.PasswordManager

	// Optional; nil when not configured.
	Redis  *redis.Client
	Events *helpers.RabbitPublisher

	userService *userapp.Service
}

func New(cfg *config.Config, logger *logrus.Logger, store repo.Store) *Container {
	return &Container{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Passwords: helpers.NewPasswordManager(cfg.BcryptCost),
	}
}

// UserService returns the directory service, building it on first use.
func (c *Container) UserService() *userapp.Service {
	if c.userService != nil {
		return c.userService
	}
	opts := []userapp.Option{userapp.WithAlwaysRehash(c.Config.PasswordAlwaysRehash)}
	if c.Events != nil {
		opts = append(opts, userapp.WithEvents(c.Events))
	}
	c.userService = userapp.NewService(c.Store, c.Passwords, c.Logger, opts...)
	return c.userService
}

// Close releases every owned resource.
func (c *Container) Close() {
	c.Events.Close()
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Store != nil {
		c.Store.Close()
	}
}
