package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"sonora-backend/internal/api/middleware"
	"sonora-backend/internal/config"
	"sonora-backend/internal/database"
	sonoraEnv "sonora-backend/internal/env"
	sonoraHttp "sonora-backend/internal/http"
	"sonora-backend/internal/jwt"
	"sonora-backend/internal/logging"
	"sonora-backend/internal/repositories"
	"sonora-backend/internal/services"
	"sonora-backend/internal/storage"

	"github.com/gorilla/mux"
)

func main() {
	// Initialize logger
	logger := logging.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Create db connection
	logger.Info("Connecting to database")
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(30*time.Second))
	defer cancel()
	db, err := database.New(ctx, cfg.MongoURL, cfg.DatabaseName, cfg.CollectionPrefix())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Token signer
	var signer *jwt.Signer
	switch cfg.JWTAlgorithm {
	case "RS256":
		signer, err = jwt.NewRS256Signer(cfg.PrivateKeyPath, cfg.JWKSPath, cfg.TokenTTL)
	default:
		signer, err = jwt.NewHS256Signer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	}
	if err != nil {
		logger.Error("Failed to initialize token signer", "error", err)
		os.Exit(1)
	}

	// Song payload storage
	client := sonoraHttp.New()
	payloads, err := storage.New(cfg, db, client)
	if err != nil {
		logger.Error("Failed to initialize song storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Using storage architecture", "architecture", string(cfg.Storage))

	// Repositories and services
	users := repositories.NewAccountRepository(db.Users())
	artists := repositories.NewAccountRepository(db.Artists())
	playlists := repositories.NewPlaylistRepository(db.Playlists())
	songs := repositories.NewSongRepository(db.Songs())

	env := sonoraEnv.NewEnvironment(
		logger,
		db,
		signer,
		services.NewAuthService(users, artists, signer, logger),
		services.NewUserService(users, artists, playlists, songs, logger),
		services.NewArtistService(artists, users, playlists, songs, logger),
		services.NewPlaylistService(playlists, users, artists, songs, logger),
		services.NewSongService(songs, artists, payloads, logger),
	)
	defer env.Database.Close()

	// Create HTTP Handler
	router := mux.NewRouter()
	middleware.AddRoutes(router, env)

	logger.Info("Serving at " + "0.0.0.0:" + cfg.Port)
	http.Handle("/", router)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+cfg.Port, nil))
}
