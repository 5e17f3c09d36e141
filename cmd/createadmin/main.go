package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"cryptem/configs"
	"cryptem/internal/domain"
	"cryptem/internal/infra"
	"cryptem/internal/logging"
	"cryptem/internal/middleware"
	"cryptem/internal/usecase"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	os.Exit(run(*email, *password))
}

func run(email, password string) int {
	_ = godotenv.Load()

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin -email <email> -password <password>")
		return 2
	}

	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.IsProduction())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := infra.OpenUserStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to open user store")
		return 1
	}
	defer store.Close()

	tokens := middleware.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	svc := usecase.NewAuthService(store.Users, tokens, nil, logger)

	user, err := svc.CreateAdmin(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			fmt.Fprintf(os.Stderr, "user %s already exists\n", email)
			return 1
		}
		logger.WithError(err).Error("Failed to create admin")
		return 1
	}

	fmt.Printf("[OK] Admin %s created with id %d\n", user.Email, user.ID)
	return 0
}
