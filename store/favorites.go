package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/smartrecipe/recipe-api/internal/errors"
	"github.com/smartrecipe/recipe-api/model"
)

// FavoriteCollection implements services.FavoriteStore on the favorites
// collection.
type FavoriteCollection struct {
	coll *mongo.Collection
}

// Exists reports whether the user already favorited the recipe.
func (f *FavoriteCollection) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	count, err := f.coll.CountDocuments(ctx, bson.M{"user_id": userID, "recipe_id": recipeID})
	if err != nil {
		return false, fmt.Errorf("checking favorite existence: %w", err)
	}
	return count > 0, nil
}

// Insert stores a new favorite. The unique (user_id, recipe_id) index turns
// a concurrent duplicate into ErrDuplicateFavorite instead of a second
// record.
func (f *FavoriteCollection) Insert(ctx context.Context, favorite *model.Favorite) error {
	result, err := f.coll.InsertOne(ctx, favorite)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.NewDuplicateFavoriteError(favorite.UserID, favorite.RecipeID)
	}
	if err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}
	favorite.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByUser returns the user's favorites in natural retrieval order.
func (f *FavoriteCollection) FindByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	cursor, err := f.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("finding favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []model.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("decoding favorites: %w", err)
	}
	return favorites, nil
}
