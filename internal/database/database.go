// Package database wraps the document store client and hands out
// collection handles with the per-environment name prefix applied.

package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. Test runs prepend the configured prefix so they
// never touch production data.
const (
	usersCollection     = "users"
	artistsCollection   = "artists"
	playlistsCollection = "playlists"
	songsCollection     = "songs"
)

type Database struct {
	client *mongo.Client
	db     *mongo.Database
	prefix string
}

// New connects to the document store and verifies the connection with a
// ping. The returned handle is passed explicitly into repositories at
// startup; there is no package-level client.
func New(ctx context.Context, uri, dbName, prefix string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("Failed to ping document store: %w", err)
	}

	return &Database{
		client: client,
		db:     client.Database(dbName),
		prefix: prefix,
	}, nil
}

func (d *Database) Users() *mongo.Collection {
	return d.db.Collection(d.prefix + usersCollection)
}

func (d *Database) Artists() *mongo.Collection {
	return d.db.Collection(d.prefix + artistsCollection)
}

func (d *Database) Playlists() *mongo.Collection {
	return d.db.Collection(d.prefix + playlistsCollection)
}

func (d *Database) Songs() *mongo.Collection {
	return d.db.Collection(d.prefix + songsCollection)
}

// SongFiles returns the GridFS bucket holding embedded song payloads.
// Chunks and file documents live in <prefix>songs.files and
// <prefix>songs.chunks.
func (d *Database) SongFiles() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(d.db, options.GridFSBucket().SetName(d.prefix+songsCollection))
}

func (d *Database) Close() error {
	if d == nil {
		return nil
	}

	return d.client.Disconnect(context.Background())
}
