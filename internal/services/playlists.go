package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/repositories"
)

type PlaylistService struct {
	playlists repositories.PlaylistRepository
	users     repositories.AccountRepository
	artists   repositories.AccountRepository
	songs     repositories.SongRepository
	logger    *slog.Logger
}

func NewPlaylistService(
	playlists repositories.PlaylistRepository,
	users repositories.AccountRepository,
	artists repositories.AccountRepository,
	songs repositories.SongRepository,
	logger *slog.Logger,
) *PlaylistService {
	return &PlaylistService{
		playlists: playlists,
		users:     users,
		artists:   artists,
		songs:     songs,
		logger:    logger,
	}
}

func (s *PlaylistService) Get(ctx context.Context, name string) (*repositories.PlaylistDAO, error) {
	return s.playlists.Get(ctx, name)
}

func (s *PlaylistService) SearchByName(ctx context.Context, query string) ([]repositories.PlaylistDAO, error) {
	return s.playlists.SearchByName(ctx, query)
}

// Create persists a playlist owned by the authenticated subject and
// records it in the owner's playlist list.
func (s *PlaylistService) Create(ctx context.Context, subject string, role Role, name, photo, description string) (*repositories.PlaylistDAO, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	owner := s.ownerRepository(role)
	exists, err := owner.Exists(ctx, subject)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: account %q", sonoraErrors.ErrNotFound, subject)
	}

	playlist := &repositories.PlaylistDAO{
		Name:        name,
		Photo:       photo,
		Description: description,
		UploadDate:  time.Now().UTC().Format(time.RFC3339),
		Owner:       subject,
		SongNames:   []string{},
	}
	if err := s.playlists.Insert(ctx, playlist); err != nil {
		return nil, err
	}
	if err := owner.AddToSet(ctx, subject, "playlists", name); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Created playlist", slog.String("name", name), slog.String("owner", subject))
	return playlist, nil
}

// Update applies a partial field replacement. A rename propagates to
// every account holding the playlist in its playlists or
// saved_playlists list; the collection-wide updates are sequential and
// not transactional, so a failure midway can leave stale references.
func (s *PlaylistService) Update(ctx context.Context, subject, name string, update PlaylistUpdate) error {
	playlist, err := s.playlists.Get(ctx, name)
	if err != nil {
		return err
	}
	if playlist.Owner != subject {
		return sonoraErrors.ErrUnauthorized
	}

	if update.NewName != nil && *update.NewName != "" {
		newName := *update.NewName
		if err := validateName(newName); err != nil {
			return err
		}
		if err := s.playlists.Rename(ctx, name, newName); err != nil {
			return err
		}
		for _, repo := range []repositories.AccountRepository{s.users, s.artists} {
			if err := repo.RenamePlaylistRefs(ctx, name, newName); err != nil {
				return err
			}
		}
		name = newName
	}

	fields := map[string]any{}
	if update.Photo != nil {
		fields["photo"] = *update.Photo
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if len(fields) == 0 {
		return nil
	}
	return s.playlists.SetFields(ctx, name, fields)
}

// Delete removes the playlist and pulls it from its owner's playlist
// list. Other accounts' saved_playlists entries are intentionally left
// alone; removing those requires an explicit call per account.
func (s *PlaylistService) Delete(ctx context.Context, subject, name string) error {
	playlist, err := s.playlists.Get(ctx, name)
	if err != nil {
		return err
	}
	if playlist.Owner != subject {
		return sonoraErrors.ErrUnauthorized
	}

	deleted, err := s.playlists.Delete(ctx, name)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return sonoraErrors.ErrNotFound
	}

	// The owner may live in either namespace; pulling from a collection
	// that does not hold the account is a no-op.
	for _, repo := range []repositories.AccountRepository{s.users, s.artists} {
		if err := repo.Pull(ctx, playlist.Owner, "playlists", name); err != nil &&
			!sonoraErrors.Is(err, sonoraErrors.ErrNotFound) {
			return err
		}
	}
	s.logger.DebugContext(ctx, "Deleted playlist", slog.String("name", name))
	return nil
}

// AddSongs adds songs to the playlist with set semantics; duplicates
// are dropped by the store.
func (s *PlaylistService) AddSongs(ctx context.Context, subject, name string, songNames []string) error {
	if len(songNames) == 0 {
		return fmt.Errorf("%w: no songs given", sonoraErrors.ErrBadParameter)
	}

	playlist, err := s.playlists.Get(ctx, name)
	if err != nil {
		return err
	}
	if playlist.Owner != subject {
		return sonoraErrors.ErrUnauthorized
	}

	for _, song := range songNames {
		exists, err := s.songs.Exists(ctx, song)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: song %q", sonoraErrors.ErrNotFound, song)
		}
	}
	return s.playlists.AddSongs(ctx, name, songNames)
}

func (s *PlaylistService) ownerRepository(role Role) repositories.AccountRepository {
	if role == RoleArtist {
		return s.artists
	}
	return s.users
}
