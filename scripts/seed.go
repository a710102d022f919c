package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"sonora-backend/internal/config"
	"sonora-backend/internal/database"
	"sonora-backend/internal/jwt"
	"sonora-backend/internal/logging"
	"sonora-backend/internal/repositories"
)

// Bootstraps the first artist account so songs can be uploaded into a
// fresh deployment.
func main() {
	// Initialize logger
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Debug("Connecting to database")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := database.New(ctx, cfg.MongoURL, cfg.DatabaseName, cfg.CollectionPrefix())
	if err != nil {
		logger.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Hash password
	logger.Debug("Hashing password")
	name := os.Getenv("SEED_ARTIST_NAME")
	password := os.Getenv("SEED_ARTIST_PASSWORD")
	if name == "" || password == "" {
		logger.Error("SEED_ARTIST_NAME and SEED_ARTIST_PASSWORD environment variables must be set")
		os.Exit(1)
	}
	passwordHash, err := jwt.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", slog.Any("error", err))
		os.Exit(1)
	}

	// Create artist account
	logger.Debug("Creating artist account")
	artists := repositories.NewAccountRepository(db.Artists())
	err = artists.Insert(ctx, &repositories.AccountDAO{
		Name:            name,
		Photo:           os.Getenv("SEED_ARTIST_PHOTO"),
		RegisterDate:    time.Now().UTC().Format(time.RFC3339),
		PasswordHash:    passwordHash,
		PlaybackHistory: []string{},
		Playlists:       []string{},
		SavedPlaylists:  []string{},
		UploadedSongs:   []string{},
	})
	if err != nil {
		logger.Error("Failed to create artist account", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Artist account created successfully", slog.String("name", name))
}
