package repositories

import (
	"context"
	"errors"
	"fmt"

	sonoraErrors "sonora-backend/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type songRepository struct {
	col *mongo.Collection
}

func NewSongRepository(col *mongo.Collection) SongRepository {
	return &songRepository{col: col}
}

func (r *songRepository) Get(ctx context.Context, name string) (*SongDAO, error) {
	var song SongDAO
	err := r.col.FindOne(ctx, bson.M{"_id": name}).Decode(&song)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sonoraErrors.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("Failed to find song: %w", err)
	}
	return &song, nil
}

func (r *songRepository) Insert(ctx context.Context, song *SongDAO) error {
	_, err := r.col.InsertOne(ctx, song)
	if mongo.IsDuplicateKeyError(err) {
		return sonoraErrors.ErrAlreadyExists
	} else if err != nil {
		return fmt.Errorf("Failed to insert song: %w", err)
	}
	return nil
}

func (r *songRepository) Delete(ctx context.Context, name string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return 0, fmt.Errorf("Failed to delete song: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *songRepository) Exists(ctx context.Context, name string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": name})
	if err != nil {
		return false, fmt.Errorf("Failed to count songs: %w", err)
	}
	return count > 0, nil
}

func (r *songRepository) SearchByName(ctx context.Context, query string) ([]SongDAO, error) {
	filter := bson.M{"_id": bson.M{"$regex": primitive.Regex{Pattern: regexEscape(query), Options: "i"}}}
	return r.find(ctx, filter)
}

func (r *songRepository) GetByGenre(ctx context.Context, genre string) ([]SongDAO, error) {
	return r.find(ctx, bson.M{"genre": genre})
}

func (r *songRepository) find(ctx context.Context, filter bson.M) ([]SongDAO, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to search songs: %w", err)
	}
	defer cursor.Close(ctx)

	songs := make([]SongDAO, 0)
	if err := cursor.All(ctx, &songs); err != nil {
		return nil, fmt.Errorf("Failed to decode songs: %w", err)
	}
	return songs, nil
}

func (r *songRepository) IncrementStreams(ctx context.Context, name string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"streams": 1}})
	if err != nil {
		return fmt.Errorf("Failed to increment streams: %w", err)
	}
	if res.MatchedCount == 0 {
		return sonoraErrors.ErrNotFound
	}
	return nil
}

func (r *songRepository) TotalStreams(ctx context.Context, artist string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"artist": artist}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$streams"}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("Failed to aggregate streams: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("Failed to decode stream total: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
