// Package for environmental dependencies

package env

import (
	"log/slog"

	"sonora-backend/internal/database"
	"sonora-backend/internal/jwt"
	"sonora-backend/internal/logging"
	"sonora-backend/internal/services"
)

const Key = "sonora-env"

// Holds the dependencies for the environment
type Env struct {
	*slog.Logger
	Database  *database.Database
	Signer    *jwt.Signer
	Auth      *services.AuthService
	Users     *services.UserService
	Artists   *services.ArtistService
	Playlists *services.PlaylistService
	Songs     *services.SongService
}

// Constructs an Env object with the provided parameters
func NewEnvironment(
	logger *slog.Logger,
	database *database.Database,
	signer *jwt.Signer,
	auth *services.AuthService,
	users *services.UserService,
	artists *services.ArtistService,
	playlists *services.PlaylistService,
	songs *services.SongService,
) *Env {
	if logger == nil {
		logger = slog.New(logging.NullLogger())
	}

	return &Env{
		Logger:    logger,
		Database:  database,
		Signer:    signer,
		Auth:      auth,
		Users:     users,
		Artists:   artists,
		Playlists: playlists,
		Songs:     songs,
	}
}

// Account returns the user or artist service matching the role carried
// by a token. The role lookup happens once per request; all subsequent
// calls go through the shared Account interface.
func (e *Env) Account(role services.Role) services.Account {
	if role == services.RoleArtist {
		return e.Artists
	}
	return e.Users
}

// Constructs a null instance
func Null() *Env {
	return &Env{
		Logger: slog.New(logging.NullLogger()),
	}
}
