package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/jwt"
	"sonora-backend/internal/repositories"
)

// accountService holds the behavior shared by the user and artist
// services: CRUD, playback history and saved playlists. self is the
// account's own collection; other is the opposite namespace, consulted
// so a user and an artist can never share a name.
type accountService struct {
	self      repositories.AccountRepository
	other     repositories.AccountRepository
	playlists repositories.PlaylistRepository
	songs     repositories.SongRepository
	logger    *slog.Logger
}

func (s *accountService) Get(ctx context.Context, name string) (*repositories.AccountDAO, error) {
	return s.self.Get(ctx, name)
}

func (s *accountService) Create(ctx context.Context, name, photo, password string) (*repositories.AccountDAO, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", sonoraErrors.ErrBadParameter)
	}

	// The name must be free in both namespaces.
	for _, repo := range []repositories.AccountRepository{s.self, s.other} {
		taken, err := repo.Exists(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: name %q is taken", sonoraErrors.ErrAlreadyExists, name)
		}
	}

	hash, err := jwt.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("Failed to hash password: %w", err)
	}

	account := &repositories.AccountDAO{
		Name:            name,
		Photo:           photo,
		RegisterDate:    time.Now().UTC().Format(time.RFC3339),
		PasswordHash:    hash,
		PlaybackHistory: []string{},
		Playlists:       []string{},
		SavedPlaylists:  []string{},
	}
	if err := s.self.Insert(ctx, account); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Created account", slog.String("name", name))
	return account, nil
}

func (s *accountService) Update(ctx context.Context, subject, name string, update AccountUpdate) error {
	if subject != name {
		return sonoraErrors.ErrUnauthorized
	}

	fields := map[string]any{}
	if update.Photo != nil {
		fields["photo"] = *update.Photo
	}
	if update.Password != nil {
		if *update.Password == "" {
			return fmt.Errorf("%w: empty password", sonoraErrors.ErrBadParameter)
		}
		hash, err := jwt.HashPassword(*update.Password)
		if err != nil {
			return fmt.Errorf("Failed to hash password: %w", err)
		}
		fields["password"] = hash
	}
	if len(fields) == 0 {
		return nil
	}
	return s.self.SetFields(ctx, name, fields)
}

func (s *accountService) Delete(ctx context.Context, subject, name string) error {
	if subject != name {
		return sonoraErrors.ErrUnauthorized
	}
	deleted, err := s.self.Delete(ctx, name)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return sonoraErrors.ErrNotFound
	}
	s.logger.DebugContext(ctx, "Deleted account", slog.String("name", name))
	return nil
}

func (s *accountService) SearchByName(ctx context.Context, query string) ([]repositories.AccountDAO, error) {
	return s.self.SearchByName(ctx, query)
}

// AddPlaybackHistory appends a song to the account's playback history,
// evicting the oldest entry beyond the cap. The read-modify-write is
// not guarded against concurrent writers.
func (s *accountService) AddPlaybackHistory(ctx context.Context, subject, name, song string) error {
	if subject != name {
		return sonoraErrors.ErrUnauthorized
	}

	exists, err := s.songs.Exists(ctx, song)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: song %q", sonoraErrors.ErrNotFound, song)
	}

	account, err := s.self.Get(ctx, name)
	if err != nil {
		return err
	}

	history := append(account.PlaybackHistory, song)
	if len(history) > maxPlaybackHistory {
		history = history[len(history)-maxPlaybackHistory:]
	}
	return s.self.SetPlaybackHistory(ctx, name, history)
}

func (s *accountService) AddSavedPlaylist(ctx context.Context, subject, name, playlist string) error {
	if subject != name {
		return sonoraErrors.ErrUnauthorized
	}

	exists, err := s.playlists.Exists(ctx, playlist)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: playlist %q", sonoraErrors.ErrNotFound, playlist)
	}
	return s.self.AddToSet(ctx, name, "saved_playlists", playlist)
}

func (s *accountService) RemoveSavedPlaylist(ctx context.Context, subject, name, playlist string) error {
	if subject != name {
		return sonoraErrors.ErrUnauthorized
	}
	return s.self.Pull(ctx, name, "saved_playlists", playlist)
}

// UserService manages accounts in the user namespace.
type UserService struct {
	accountService
}

func NewUserService(
	users repositories.AccountRepository,
	artists repositories.AccountRepository,
	playlists repositories.PlaylistRepository,
	songs repositories.SongRepository,
	logger *slog.Logger,
) *UserService {
	return &UserService{accountService{
		self:      users,
		other:     artists,
		playlists: playlists,
		songs:     songs,
		logger:    logger,
	}}
}

// ArtistService manages accounts in the artist namespace.
type ArtistService struct {
	accountService
}

func NewArtistService(
	artists repositories.AccountRepository,
	users repositories.AccountRepository,
	playlists repositories.PlaylistRepository,
	songs repositories.SongRepository,
	logger *slog.Logger,
) *ArtistService {
	return &ArtistService{accountService{
		self:      artists,
		other:     users,
		playlists: playlists,
		songs:     songs,
		logger:    logger,
	}}
}

// TotalStreams sums the stream counters of every song uploaded by the
// artist.
func (s *ArtistService) TotalStreams(ctx context.Context, name string) (int64, error) {
	exists, err := s.self.Exists(ctx, name)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: artist %q", sonoraErrors.ErrNotFound, name)
	}
	return s.songs.TotalStreams(ctx, name)
}

var _ Account = (*UserService)(nil)
var _ Account = (*ArtistService)(nil)
