// Package storage provides the interchangeable backends holding song
// payloads. The backend is selected once at startup from configuration
// and injected into the song service; there is no runtime migration or
// dual-write between backends.

package storage

import (
	"context"
	"fmt"
	"io"

	"sonora-backend/internal/config"
	"sonora-backend/internal/database"
	sonoraHttp "sonora-backend/internal/http"
)

// Backend stores and serves raw song payloads keyed by song name.
// Implementations must be safe for concurrent use. A missing payload
// surfaces as ErrDataNotFound, distinct from the song metadata missing.
type Backend interface {
	// Put stores the payload for a song.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the payload stream and its total size. The caller
	// must close the stream.
	Get(ctx context.Context, name string) (io.ReadCloser, int64, error)

	// Size returns the payload size without streaming the body.
	Size(ctx context.Context, name string) (int64, error)

	// Delete removes the payload.
	Delete(ctx context.Context, name string) error

	// URL returns where clients can fetch the audio from.
	URL(name string) string
}

// New selects the backend for the configured storage architecture. An
// unsupported value is a startup error, not a per-request one.
func New(cfg *config.Config, db *database.Database, client *sonoraHttp.Client) (Backend, error) {
	switch cfg.Storage {
	case config.StorageGridFS:
		return NewGridFSBackend(db)
	case config.StorageCloudinary:
		return NewCloudinaryBackend(cfg.CloudinaryURL, client)
	case config.StorageServerless:
		return NewServerlessBackend(cfg.StreamingFunctionURL, client), nil
	default:
		return nil, fmt.Errorf("unsupported storage architecture: %q", cfg.Storage)
	}
}
