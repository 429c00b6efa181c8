package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-directory/config"
	userapp "github.com/oksasatya/go-user-directory/internal/application"
	"github.com/oksasatya/go-user-directory/internal/container"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	store, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	c := container.New(cfg, logger, store)
	defer c.Close()

	email := "demo@example.com"
	password := "password123"
	name := "demoUser"

	u, err := c.UserService().Create(ctx, userapp.CreateUserInput{
		Name:     name,
		Email:    &email,
		Age:      30,
		Password: password,
	})
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s name=%s password=%s\n", u.ID, email, name, password)
}
