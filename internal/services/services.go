// Package services implements validation, authorization and business
// rules over the entity repositories. Handlers call services; services
// call repositories and the storage backend.
package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/repositories"
)

// Role distinguishes the two account namespaces a token subject can
// live in.
type Role string

const (
	RoleUser   Role = "user"
	RoleArtist Role = "artist"
)

func (r Role) Validate() error {
	if r != RoleUser && r != RoleArtist {
		return fmt.Errorf("%w: invalid role %q", sonoraErrors.ErrBadParameter, r)
	}
	return nil
}

type Genre string

var genres = [8]Genre{
	"Pop",
	"Rock",
	"HipHop",
	"Electronic",
	"Jazz",
	"Classical",
	"Reggaeton",
	"Other",
}

func (g Genre) Validate() error {
	if !slices.Contains(genres[:], g) {
		return fmt.Errorf("%w: invalid genre %q", sonoraErrors.ErrBadParameter, g)
	}
	return nil
}

// Playback history is capped; the oldest entry is evicted first.
const maxPlaybackHistory = 5

const maxNameLength = 128

// validateName is the generic parameter check applied to every entity
// name before it is persisted or used as a key.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", sonoraErrors.ErrBadParameter)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name too long", sonoraErrors.ErrBadParameter)
	}
	for _, r := range name {
		if r < 0x20 || r == '/' {
			return fmt.Errorf("%w: invalid character in name", sonoraErrors.ErrBadParameter)
		}
	}
	return nil
}

// Account is the capability shared by users and artists. A token's role
// selects the concrete implementation once per request.
type Account interface {
	Get(ctx context.Context, name string) (*repositories.AccountDAO, error)
	Create(ctx context.Context, name, photo, password string) (*repositories.AccountDAO, error)
	Update(ctx context.Context, subject, name string, update AccountUpdate) error
	Delete(ctx context.Context, subject, name string) error
	SearchByName(ctx context.Context, query string) ([]repositories.AccountDAO, error)
	AddPlaybackHistory(ctx context.Context, subject, name, song string) error
	AddSavedPlaylist(ctx context.Context, subject, name, playlist string) error
	RemoveSavedPlaylist(ctx context.Context, subject, name, playlist string) error
}

// AccountUpdate is a partial field replacement. Nil fields are left
// untouched.
type AccountUpdate struct {
	Photo    *string
	Password *string
}

// PlaylistUpdate is a partial field replacement for playlists. A
// non-empty NewName renames the playlist.
type PlaylistUpdate struct {
	NewName     *string
	Photo       *string
	Description *string
}
