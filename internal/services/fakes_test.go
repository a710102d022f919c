package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/logging"
	"sonora-backend/internal/repositories"
)

// In-memory repositories backing the service tests. They mirror the
// store's behavior for the operations the services rely on: keyed by
// name, duplicate inserts rejected, array fields with set semantics.

func testLogger() *slog.Logger {
	return slog.New(logging.NullLogger())
}

type fakeAccountRepo struct {
	accounts map[string]*repositories.AccountDAO
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*repositories.AccountDAO{}}
}

func (r *fakeAccountRepo) Get(ctx context.Context, name string) (*repositories.AccountDAO, error) {
	account, ok := r.accounts[name]
	if !ok {
		return nil, sonoraErrors.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) Insert(ctx context.Context, account *repositories.AccountDAO) error {
	if _, ok := r.accounts[account.Name]; ok {
		return sonoraErrors.ErrAlreadyExists
	}
	copied := *account
	r.accounts[account.Name] = &copied
	return nil
}

func (r *fakeAccountRepo) SetFields(ctx context.Context, name string, fields map[string]any) error {
	account, ok := r.accounts[name]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	if photo, ok := fields["photo"].(string); ok {
		account.Photo = photo
	}
	if password, ok := fields["password"].(string); ok {
		account.PasswordHash = password
	}
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, name string) (int64, error) {
	if _, ok := r.accounts[name]; !ok {
		return 0, nil
	}
	delete(r.accounts, name)
	return 1, nil
}

func (r *fakeAccountRepo) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := r.accounts[name]
	return ok, nil
}

func (r *fakeAccountRepo) SearchByName(ctx context.Context, query string) ([]repositories.AccountDAO, error) {
	var out []repositories.AccountDAO
	for _, account := range r.accounts {
		if strings.Contains(account.Name, query) {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) SetPlaybackHistory(ctx context.Context, name string, history []string) error {
	account, ok := r.accounts[name]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	account.PlaybackHistory = history
	return nil
}

func (r *fakeAccountRepo) AddToSet(ctx context.Context, name, field, value string) error {
	account, ok := r.accounts[name]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	target := r.field(account, field)
	for _, existing := range *target {
		if existing == value {
			return nil
		}
	}
	*target = append(*target, value)
	return nil
}

func (r *fakeAccountRepo) Pull(ctx context.Context, name, field, value string) error {
	account, ok := r.accounts[name]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	target := r.field(account, field)
	kept := (*target)[:0]
	for _, existing := range *target {
		if existing != value {
			kept = append(kept, existing)
		}
	}
	*target = kept
	return nil
}

func (r *fakeAccountRepo) RenamePlaylistRefs(ctx context.Context, oldName, newName string) error {
	for _, account := range r.accounts {
		for _, list := range []*[]string{&account.Playlists, &account.SavedPlaylists} {
			for i, existing := range *list {
				if existing == oldName {
					(*list)[i] = newName
				}
			}
		}
	}
	return nil
}

func (r *fakeAccountRepo) field(account *repositories.AccountDAO, field string) *[]string {
	switch field {
	case "playlists":
		return &account.Playlists
	case "saved_playlists":
		return &account.SavedPlaylists
	case "uploaded_songs":
		return &account.UploadedSongs
	default:
		panic("unknown field " + field)
	}
}

type fakePlaylistRepo struct {
	playlists map[string]*repositories.PlaylistDAO
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: map[string]*repositories.PlaylistDAO{}}
}

func (r *fakePlaylistRepo) Get(ctx context.Context, name string) (*repositories.PlaylistDAO, error) {
	playlist, ok := r.playlists[name]
	if !ok {
		return nil, sonoraErrors.ErrNotFound
	}
	copied := *playlist
	return &copied, nil
}

func (r *fakePlaylistRepo) Insert(ctx context.Context, playlist *repositories.PlaylistDAO) error {
	if _, ok := r.playlists[playlist.Name]; ok {
		return sonoraErrors.ErrAlreadyExists
	}
	copied := *playlist
	r.playlists[playlist.Name] = &copied
	return nil
}

func (r *fakePlaylistRepo) SetFields(ctx context.Context, name string, fields map[string]any) error {
	playlist, ok := r.playlists[name]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	if photo, ok := fields["photo"].(string); ok {
		playlist.Photo = photo
	}
	if description, ok := fields["description"].(string); ok {
		playlist.Description = description
	}
	return nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, name string) (int64, error) {
	if _, ok := r.playlists[name]; !ok {
		return 0, nil
	}
	delete(r.playlists, name)
	return 1, nil
}

func (r *fakePlaylistRepo) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := r.playlists[name]
	return ok, nil
}

func (r *fakePlaylistRepo) SearchByName(ctx context.Context, query string) ([]repositories.PlaylistDAO, error) {
	var out []repositories.PlaylistDAO
	for _, playlist := range r.playlists {
		if strings.Contains(playlist.Name, query) {
			out = append(out, *playlist)
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) AddSongs(ctx context.Context, name string, songs []string) error {
	playlist, ok := r.playlists[name]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	for _, song := range songs {
		found := false
		for _, existing := range playlist.SongNames {
			if existing == song {
				found = true
				break
			}
		}
		if !found {
			playlist.SongNames = append(playlist.SongNames, song)
		}
	}
	return nil
}

func (r *fakePlaylistRepo) Rename(ctx context.Context, oldName, newName string) error {
	playlist, ok := r.playlists[oldName]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	if _, ok := r.playlists[newName]; ok {
		return sonoraErrors.ErrAlreadyExists
	}
	playlist.Name = newName
	r.playlists[newName] = playlist
	delete(r.playlists, oldName)
	return nil
}

type fakeSongRepo struct {
	songs map[string]*repositories.SongDAO
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{songs: map[string]*repositories.SongDAO{}}
}

func (r *fakeSongRepo) Get(ctx context.Context, name string) (*repositories.SongDAO, error) {
	song, ok := r.songs[name]
	if !ok {
		return nil, sonoraErrors.ErrNotFound
	}
	copied := *song
	return &copied, nil
}

func (r *fakeSongRepo) Insert(ctx context.Context, song *repositories.SongDAO) error {
	if _, ok := r.songs[song.Name]; ok {
		return sonoraErrors.ErrAlreadyExists
	}
	copied := *song
	r.songs[song.Name] = &copied
	return nil
}

func (r *fakeSongRepo) Delete(ctx context.Context, name string) (int64, error) {
	if _, ok := r.songs[name]; !ok {
		return 0, nil
	}
	delete(r.songs, name)
	return 1, nil
}

func (r *fakeSongRepo) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := r.songs[name]
	return ok, nil
}

func (r *fakeSongRepo) SearchByName(ctx context.Context, query string) ([]repositories.SongDAO, error) {
	var out []repositories.SongDAO
	for _, song := range r.songs {
		if strings.Contains(song.Name, query) {
			out = append(out, *song)
		}
	}
	return out, nil
}

func (r *fakeSongRepo) GetByGenre(ctx context.Context, genre string) ([]repositories.SongDAO, error) {
	var out []repositories.SongDAO
	for _, song := range r.songs {
		if song.Genre == genre {
			out = append(out, *song)
		}
	}
	return out, nil
}

func (r *fakeSongRepo) IncrementStreams(ctx context.Context, name string) error {
	song, ok := r.songs[name]
	if !ok {
		return sonoraErrors.ErrNotFound
	}
	song.Streams++
	return nil
}

func (r *fakeSongRepo) TotalStreams(ctx context.Context, artist string) (int64, error) {
	var total int64
	for _, song := range r.songs {
		if song.Artist == artist {
			total += song.Streams
		}
	}
	return total, nil
}

// fakeBackend keeps song payloads in memory.
type fakeBackend struct {
	payloads map[string][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{payloads: map[string][]byte{}}
}

func (b *fakeBackend) Put(ctx context.Context, name string, data []byte) error {
	b.payloads[name] = append([]byte(nil), data...)
	return nil
}

func (b *fakeBackend) Get(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	data, ok := b.payloads[name]
	if !ok {
		return nil, 0, sonoraErrors.ErrDataNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (b *fakeBackend) Size(ctx context.Context, name string) (int64, error) {
	data, ok := b.payloads[name]
	if !ok {
		return 0, sonoraErrors.ErrDataNotFound
	}
	return int64(len(data)), nil
}

func (b *fakeBackend) Delete(ctx context.Context, name string) error {
	if _, ok := b.payloads[name]; !ok {
		return sonoraErrors.ErrDataNotFound
	}
	delete(b.payloads, name)
	return nil
}

func (b *fakeBackend) URL(name string) string {
	return "/songs/" + name + "/stream"
}
