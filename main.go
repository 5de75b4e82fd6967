package main

import (
	"log/slog"
	"os"

	"github.com/pantryhub/pantry/internal/config"
	"github.com/pantryhub/pantry/internal/database"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/server"
	"github.com/pantryhub/pantry/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(cfg.LogLevel),
	})))

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	srv := server.New(db, cfg, authService)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
