package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"sonora-backend/internal/database"
	sonoraErrors "sonora-backend/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// Embedded-BLOB backend: payloads live in a GridFS bucket inside the
// same document store as the entity collections.
type gridFSBackend struct {
	bucket *gridfs.Bucket
}

func NewGridFSBackend(db *database.Database) (Backend, error) {
	bucket, err := db.SongFiles()
	if err != nil {
		return nil, fmt.Errorf("Failed to open song bucket: %w", err)
	}
	return &gridFSBackend{bucket: bucket}, nil
}

func (b *gridFSBackend) Put(ctx context.Context, name string, data []byte) error {
	_, err := b.bucket.UploadFromStream(name, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("Failed to upload song payload: %w", err)
	}
	return nil
}

func (b *gridFSBackend) Get(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	stream, err := b.bucket.OpenDownloadStreamByName(name)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, 0, sonoraErrors.ErrDataNotFound
	} else if err != nil {
		return nil, 0, fmt.Errorf("Failed to open song payload: %w", err)
	}
	return stream, stream.GetFile().Length, nil
}

func (b *gridFSBackend) Size(ctx context.Context, name string) (int64, error) {
	file, err := b.findFile(ctx, name)
	if err != nil {
		return 0, err
	}
	return file.Length, nil
}

func (b *gridFSBackend) Delete(ctx context.Context, name string) error {
	file, err := b.findFile(ctx, name)
	if err != nil {
		return err
	}
	if err := b.bucket.Delete(file.ID); err != nil {
		return fmt.Errorf("Failed to delete song payload: %w", err)
	}
	return nil
}

// Payloads in the embedded architecture are served through the API's
// own streaming endpoint.
func (b *gridFSBackend) URL(name string) string {
	return fmt.Sprintf("/songs/%s/stream", name)
}

type gridFSFile struct {
	ID     primitive.ObjectID `bson:"_id"`
	Length int64              `bson:"length"`
}

func (b *gridFSBackend) findFile(ctx context.Context, name string) (*gridFSFile, error) {
	cursor, err := b.bucket.Find(bson.M{"filename": name})
	if err != nil {
		return nil, fmt.Errorf("Failed to find song payload: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		return nil, sonoraErrors.ErrDataNotFound
	}
	var file gridFSFile
	if err := cursor.Decode(&file); err != nil {
		return nil, fmt.Errorf("Failed to decode song payload metadata: %w", err)
	}
	return &file, nil
}
