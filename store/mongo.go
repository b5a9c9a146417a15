// Package store implements the MongoDB-backed persistence layer behind the
// services store interfaces.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	recipesCollection   = "recipes"
	favoritesCollection = "favorites"

	connectTimeout = 10 * time.Second
)

// Store wraps a connected Mongo client and exposes the collection-level
// stores consumed by the services. It is constructed once at startup and
// passed down explicitly; nothing holds it as ambient state.
type Store struct {
	client *mongo.Client

	Recipes   *RecipeCollection
	Favorites *FavoriteCollection
}

// Connect establishes the client connection, verifies it with a ping and
// prepares the collection indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:    client,
		Recipes:   &RecipeCollection{coll: db.Collection(recipesCollection)},
		Favorites: &FavoriteCollection{coll: db.Collection(favoritesCollection)},
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the ingredient index used by search and the unique
// (user_id, recipe_id) index that backstops the favorite duplicate check
// under concurrent identical requests.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.Recipes.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ingredients.canonicalName", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating ingredient index: %w", err)
	}

	_, err = s.Favorites.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "recipe_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating favorite uniqueness index: %w", err)
	}
	return nil
}

// Close tears down the underlying client connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
