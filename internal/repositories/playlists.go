package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	sonoraErrors "sonora-backend/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type playlistRepository struct {
	col *mongo.Collection
}

func NewPlaylistRepository(col *mongo.Collection) PlaylistRepository {
	return &playlistRepository{col: col}
}

func (r *playlistRepository) Get(ctx context.Context, name string) (*PlaylistDAO, error) {
	var playlist PlaylistDAO
	err := r.col.FindOne(ctx, bson.M{"_id": name}).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sonoraErrors.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("Failed to find playlist: %w", err)
	}
	return &playlist, nil
}

func (r *playlistRepository) Insert(ctx context.Context, playlist *PlaylistDAO) error {
	_, err := r.col.InsertOne(ctx, playlist)
	if mongo.IsDuplicateKeyError(err) {
		return sonoraErrors.ErrAlreadyExists
	} else if err != nil {
		return fmt.Errorf("Failed to insert playlist: %w", err)
	}
	return nil
}

func (r *playlistRepository) SetFields(ctx context.Context, name string, fields map[string]any) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("Failed to update playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return sonoraErrors.ErrNotFound
	}
	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, name string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return 0, fmt.Errorf("Failed to delete playlist: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *playlistRepository) Exists(ctx context.Context, name string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": name})
	if err != nil {
		return false, fmt.Errorf("Failed to count playlists: %w", err)
	}
	return count > 0, nil
}

func (r *playlistRepository) SearchByName(ctx context.Context, query string) ([]PlaylistDAO, error) {
	filter := bson.M{"_id": bson.M{"$regex": primitive.Regex{Pattern: regexEscape(query), Options: "i"}}}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to search playlists: %w", err)
	}
	defer cursor.Close(ctx)

	playlists := make([]PlaylistDAO, 0)
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, fmt.Errorf("Failed to decode playlists: %w", err)
	}
	return playlists, nil
}

func (r *playlistRepository) AddSongs(ctx context.Context, name string, songs []string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$addToSet": bson.M{"song_names": bson.M{"$each": songs}}},
	)
	if err != nil {
		return fmt.Errorf("Failed to add songs to playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return sonoraErrors.ErrNotFound
	}
	return nil
}

func (r *playlistRepository) Rename(ctx context.Context, oldName, newName string) error {
	playlist, err := r.Get(ctx, oldName)
	if err != nil {
		return err
	}

	// The name is the document key, so a rename re-keys the document.
	// A failure between the insert and the delete leaves both documents
	// behind; callers treat this as an accepted consistency gap.
	playlist.Name = newName
	if err := r.Insert(ctx, playlist); err != nil {
		return err
	}
	if _, err := r.Delete(ctx, oldName); err != nil {
		return err
	}
	return nil
}

func regexEscape(s string) string {
	return regexp.QuoteMeta(s)
}
