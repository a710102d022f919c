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

// Mongo-backed AccountRepository. The same implementation serves the
// users and artists collections.
type accountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(col *mongo.Collection) AccountRepository {
	return &accountRepository{col: col}
}

func (r *accountRepository) Get(ctx context.Context, name string) (*AccountDAO, error) {
	var account AccountDAO
	err := r.col.FindOne(ctx, bson.M{"_id": name}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sonoraErrors.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("Failed to find account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) Insert(ctx context.Context, account *AccountDAO) error {
	_, err := r.col.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return sonoraErrors.ErrAlreadyExists
	} else if err != nil {
		return fmt.Errorf("Failed to insert account: %w", err)
	}
	return nil
}

func (r *accountRepository) SetFields(ctx context.Context, name string, fields map[string]any) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("Failed to update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return sonoraErrors.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, name string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return 0, fmt.Errorf("Failed to delete account: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *accountRepository) Exists(ctx context.Context, name string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": name})
	if err != nil {
		return false, fmt.Errorf("Failed to count accounts: %w", err)
	}
	return count > 0, nil
}

func (r *accountRepository) SearchByName(ctx context.Context, query string) ([]AccountDAO, error) {
	filter := bson.M{"_id": bson.M{"$regex": primitive.Regex{Pattern: regexEscape(query), Options: "i"}}}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to search accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := make([]AccountDAO, 0)
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("Failed to decode accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) SetPlaybackHistory(ctx context.Context, name string, history []string) error {
	return r.SetFields(ctx, name, map[string]any{"playback_history": history})
}

func (r *accountRepository) AddToSet(ctx context.Context, name, field, value string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$addToSet": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("Failed to add %s to %s: %w", value, field, err)
	}
	if res.MatchedCount == 0 {
		return sonoraErrors.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Pull(ctx context.Context, name, field, value string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$pull": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("Failed to pull %s from %s: %w", value, field, err)
	}
	if res.MatchedCount == 0 {
		return sonoraErrors.ErrNotFound
	}
	return nil
}

func (r *accountRepository) RenamePlaylistRefs(ctx context.Context, oldName, newName string) error {
	// Names are unique within each array, so the positional operator
	// rewrites the single matching element per document.
	for _, field := range []string{"playlists", "saved_playlists"} {
		_, err := r.col.UpdateMany(ctx,
			bson.M{field: oldName},
			bson.M{"$set": bson.M{field + ".$": newName}},
		)
		if err != nil {
			return fmt.Errorf("Failed to rename %s references: %w", field, err)
		}
	}
	return nil
}
