package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-directory/config"
	"github.com/oksasatya/go-user-directory/internal/container"
	"github.com/oksasatya/go-user-directory/internal/router"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
	"github.com/oksasatya/go-user-directory/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	validation.Init()

	ctx := context.Background()

	store, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}

	c := container.New(cfg, logger, store)
	defer c.Close()

	// Redis backs the rate limiter; without it requests are not limited.
	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, c.Redis); err != nil {
		logger.WithError(err).Warn("redis unreachable; rate limiting fails open")
	}

	if cfg.EventsEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQUserEventsQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; user events disabled", err, nil)
		} else {
			c.Events = pub
		}
	}

	r := router.NewEngine(c)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
