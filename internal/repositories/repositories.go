// Package repositories provides the persistence layer for all entity
// types. Each repository translates between DAOs and documents in its
// collection; business rules live one layer up in services.
package repositories

import (
	"context"
)

// AccountDAO is the stored representation of a user or artist. The two
// share a document shape; UploadedSongs is only ever populated for
// artists. Names are the document keys, so uniqueness within a
// collection comes from the store itself.
type AccountDAO struct {
	Name            string   `bson:"_id"`
	Photo           string   `bson:"photo"`
	RegisterDate    string   `bson:"register_date"`
	PasswordHash    string   `bson:"password"`
	PlaybackHistory []string `bson:"playback_history"`
	Playlists       []string `bson:"playlists"`
	SavedPlaylists  []string `bson:"saved_playlists"`
	UploadedSongs   []string `bson:"uploaded_songs,omitempty"`
}

// PlaylistDAO is the stored representation of a playlist. SongNames has
// set semantics; it is deduplicated on every update and order is not
// preserved.
type PlaylistDAO struct {
	Name        string   `bson:"_id"`
	Photo       string   `bson:"photo"`
	Description string   `bson:"description"`
	UploadDate  string   `bson:"upload_date"`
	Owner       string   `bson:"owner"`
	SongNames   []string `bson:"song_names"`
}

// SongDAO is the stored representation of a song's metadata. The audio
// payload itself lives in the configured storage backend.
type SongDAO struct {
	Name            string `bson:"_id"`
	Artist          string `bson:"artist"`
	Photo           string `bson:"photo"`
	Genre           string `bson:"genre"`
	SecondsDuration int    `bson:"seconds_duration"`
	Streams         int64  `bson:"streams"`
	UploadDate      string `bson:"upload_date"`
}

// AccountRepository is implemented once over the users collection and
// once over the artists collection.
type AccountRepository interface {
	Get(ctx context.Context, name string) (*AccountDAO, error)
	Insert(ctx context.Context, account *AccountDAO) error
	SetFields(ctx context.Context, name string, fields map[string]any) error
	Delete(ctx context.Context, name string) (int64, error)
	Exists(ctx context.Context, name string) (bool, error)
	SearchByName(ctx context.Context, query string) ([]AccountDAO, error)

	SetPlaybackHistory(ctx context.Context, name string, history []string) error
	AddToSet(ctx context.Context, name, field, value string) error
	Pull(ctx context.Context, name, field, value string) error

	// RenamePlaylistRefs rewrites every occurrence of oldName in the
	// collection's playlists and saved_playlists arrays. The two updates
	// are not transactional.
	RenamePlaylistRefs(ctx context.Context, oldName, newName string) error
}

type PlaylistRepository interface {
	Get(ctx context.Context, name string) (*PlaylistDAO, error)
	Insert(ctx context.Context, playlist *PlaylistDAO) error
	SetFields(ctx context.Context, name string, fields map[string]any) error
	Delete(ctx context.Context, name string) (int64, error)
	Exists(ctx context.Context, name string) (bool, error)
	SearchByName(ctx context.Context, query string) ([]PlaylistDAO, error)

	AddSongs(ctx context.Context, name string, songs []string) error

	// Rename re-keys the playlist document. Because the name is the
	// document key this is an insert followed by a delete, not an
	// in-place update.
	Rename(ctx context.Context, oldName, newName string) error
}

type SongRepository interface {
	Get(ctx context.Context, name string) (*SongDAO, error)
	Insert(ctx context.Context, song *SongDAO) error
	Delete(ctx context.Context, name string) (int64, error)
	Exists(ctx context.Context, name string) (bool, error)
	SearchByName(ctx context.Context, query string) ([]SongDAO, error)

	GetByGenre(ctx context.Context, genre string) ([]SongDAO, error)
	IncrementStreams(ctx context.Context, name string) error

	// TotalStreams sums the stream counters of every song by the artist.
	TotalStreams(ctx context.Context, artist string) (int64, error)
}
