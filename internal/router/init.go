package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-directory/internal/container"
	handlers "github.com/oksasatya/go-user-directory/internal/interface/http"
	"github.com/oksasatya/go-user-directory/internal/interface/middleware"
	"github.com/oksasatya/go-user-directory/internal/router/modules"
)

// InitModules wires every application module into the registry.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	users := modules.NewUserModule(handlers.NewUserHandler(c.UserService(), c.Logger))
	if cfg.UsersRequireToken {
		users.Use(middleware.RequireToken(cfg.AuthToken))
	}
	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	if c.Redis != nil {
		users.Use(middleware.RateLimit(c.Redis, c.Logger, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIPAndMethod(), allow))
	}

	r.Add(modules.NewRootModule())
	r.Add(users)
	if cfg.DebugMetricsEnabled {
		var mw []gin.HandlerFunc
		if c.Redis != nil {
			mw = append(mw, middleware.RateLimit(c.Redis, c.Logger, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIP(), allow))
		}
		r.Add(modules.NewDebugModule(mw...))
	}
}

// NewEngine builds the gin engine with global middleware and all modules registered.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Token", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
		}))
	}

	reg := NewRegistry(r, cfg.APIPrefix)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
