package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"sonora-backend/internal/audio"
	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/repositories"
	"sonora-backend/internal/storage"
	"sonora-backend/internal/stream"
)

type SongService struct {
	songs    repositories.SongRepository
	artists  repositories.AccountRepository
	payloads storage.Backend
	logger   *slog.Logger
}

func NewSongService(
	songs repositories.SongRepository,
	artists repositories.AccountRepository,
	payloads storage.Backend,
	logger *slog.Logger,
) *SongService {
	return &SongService{
		songs:    songs,
		artists:  artists,
		payloads: payloads,
		logger:   logger,
	}
}

// Song pairs a song's metadata with the URL its audio is served from.
type Song struct {
	repositories.SongDAO
	AudioURL string
}

func (s *SongService) Get(ctx context.Context, name string) (*Song, error) {
	dao, err := s.songs.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Song{SongDAO: *dao, AudioURL: s.payloads.URL(name)}, nil
}

// Create analyzes the uploaded payload, stores it in the configured
// backend and persists the song metadata. Only the declared artist may
// upload under its own name.
func (s *SongService) Create(ctx context.Context, subject, name, artist, genre, photo string, payload []byte) (*Song, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := Genre(genre).Validate(); err != nil {
		return nil, err
	}
	if subject != artist {
		return nil, sonoraErrors.ErrUnauthorized
	}

	exists, err := s.artists.Exists(ctx, artist)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: artist %q", sonoraErrors.ErrNotFound, artist)
	}

	taken, err := s.songs.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: song %q", sonoraErrors.ErrAlreadyExists, name)
	}

	seconds, err := audio.Analyze(payload)
	if err != nil {
		return nil, err
	}

	if err := s.payloads.Put(ctx, name, payload); err != nil {
		return nil, err
	}

	dao := &repositories.SongDAO{
		Name:            name,
		Artist:          artist,
		Photo:           photo,
		Genre:           genre,
		SecondsDuration: seconds,
		Streams:         0,
		UploadDate:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.songs.Insert(ctx, dao); err != nil {
		return nil, err
	}
	if err := s.artists.AddToSet(ctx, artist, "uploaded_songs", name); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Created song", slog.String("name", name), slog.String("artist", artist))
	return &Song{SongDAO: *dao, AudioURL: s.payloads.URL(name)}, nil
}

// Delete removes the metadata, the payload and the artist's
// uploaded_songs reference. Playlist entries referencing the song are
// left alone.
func (s *SongService) Delete(ctx context.Context, subject, name string) error {
	song, err := s.songs.Get(ctx, name)
	if err != nil {
		return err
	}
	if song.Artist != subject {
		return sonoraErrors.ErrUnauthorized
	}

	deleted, err := s.songs.Delete(ctx, name)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return sonoraErrors.ErrNotFound
	}

	if err := s.payloads.Delete(ctx, name); err != nil &&
		!sonoraErrors.Is(err, sonoraErrors.ErrDataNotFound) {
		// Metadata is already gone; the orphaned payload is logged and
		// left for cleanup.
		s.logger.ErrorContext(ctx, "Failed to delete song payload", slog.Any("error", err))
	}

	if err := s.artists.Pull(ctx, song.Artist, "uploaded_songs", name); err != nil &&
		!sonoraErrors.Is(err, sonoraErrors.ErrNotFound) {
		return err
	}
	s.logger.DebugContext(ctx, "Deleted song", slog.String("name", name))
	return nil
}

func (s *SongService) SearchByName(ctx context.Context, query string) ([]repositories.SongDAO, error) {
	return s.songs.SearchByName(ctx, query)
}

func (s *SongService) GetByGenre(ctx context.Context, genre string) ([]repositories.SongDAO, error) {
	if err := Genre(genre).Validate(); err != nil {
		return nil, err
	}
	return s.songs.GetByGenre(ctx, genre)
}

// StreamSession is one resolved range request over a song payload. The
// chunk sequence is finite and cannot be restarted; Close releases the
// underlying payload stream.
type StreamSession struct {
	Range  stream.Range
	Length int64
	Chunks *stream.ChunkReader

	body io.Closer
}

func (s *StreamSession) Close() error {
	return s.body.Close()
}

// Stream resolves the requested byte range against the song payload and
// bumps the song's stream counter.
func (s *SongService) Stream(ctx context.Context, name, rangeHeader string) (*StreamSession, error) {
	exists, err := s.songs.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: song %q", sonoraErrors.ErrNotFound, name)
	}

	body, length, err := s.payloads.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	rng, err := stream.ResolveRange(rangeHeader, length)
	if err != nil {
		body.Close()
		return nil, err
	}

	chunks, err := stream.NewChunkReader(body, rng, length)
	if err != nil {
		body.Close()
		return nil, err
	}

	if err := s.songs.IncrementStreams(ctx, name); err != nil {
		s.logger.ErrorContext(ctx, "Failed to increment stream counter", slog.Any("error", err))
	}

	return &StreamSession{
		Range:  rng,
		Length: length,
		Chunks: chunks,
		body:   body,
	}, nil
}
