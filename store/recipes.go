package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/smartrecipe/recipe-api/internal/errors"
	"github.com/smartrecipe/recipe-api/model"
	"github.com/smartrecipe/recipe-api/services"
)

// RecipeCollection implements services.RecipeStore on the recipes collection.
type RecipeCollection struct {
	coll *mongo.Collection
}

// Create inserts a new recipe document and fills in the assigned ObjectID.
func (r *RecipeCollection) Create(ctx context.Context, recipe *model.Recipe) error {
	recipe.CreatedAt = time.Now()
	result, err := r.coll.InsertOne(ctx, recipe)
	if err != nil {
		return fmt.Errorf("inserting recipe: %w", err)
	}
	recipe.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Find retrieves all recipes satisfying the conjunctive filter.
func (r *RecipeCollection) Find(ctx context.Context, filter services.RecipeFilter) ([]model.Recipe, error) {
	query := bson.M{}
	if filter.Vegetarian {
		query["filters.isVegetarian"] = true
	}
	if filter.GlutenFree {
		query["filters.isGlutenFree"] = true
	}
	if filter.MaxCookingTime != nil {
		query["filters.cookingTimeMinutes"] = bson.M{"$lte": *filter.MaxCookingTime}
	}
	if filter.Cuisine != "" {
		query["filters.cuisine"] = filter.Cuisine
	}
	if len(filter.AnyIngredients) > 0 {
		query["ingredients.canonicalName"] = bson.M{"$in": filter.AnyIngredients}
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []model.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decoding recipes: %w", err)
	}
	return recipes, nil
}

// FindByIDs retrieves the recipes with the given hex IDs. IDs that do not
// parse are skipped rather than failing the whole lookup.
func (r *RecipeCollection) FindByIDs(ctx context.Context, ids []string) ([]model.Recipe, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return []model.Recipe{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("finding recipes by id: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []model.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decoding recipes: %w", err)
	}
	return recipes, nil
}

// Get loads a single recipe by hex ID.
func (r *RecipeCollection) Get(ctx context.Context, id string) (*model.Recipe, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewInvalidIDError(id)
	}

	var recipe model.Recipe
	err = r.coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewRecipeNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading recipe: %w", err)
	}
	return &recipe, nil
}

// DistinctIngredients returns all canonical ingredient names across the
// collection, lexicographically sorted.
func (r *RecipeCollection) DistinctIngredients(ctx context.Context) ([]string, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$ingredients"}},
		bson.D{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$ingredients.canonicalName"}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating ingredients: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Name string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decoding ingredient names: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// SetUserRating upserts ratings[userID] = rating on the target recipe.
// A write that matches no document surfaces as ErrRecipeNotFound.
//
// Together with Get and SetAverageRating this forms a non-atomic
// read-modify-write; concurrent raters on the same recipe can interleave.
// A single pipeline update computing the average server-side would close
// that window if it ever matters at this scale.
func (r *RecipeCollection) SetUserRating(ctx context.Context, id, userID string, rating int) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewInvalidIDError(id)
	}

	update := bson.M{"$set": bson.M{"ratings." + userID: rating}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("writing rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewRecipeNotFoundError(id)
	}
	return nil
}

// SetAverageRating writes the derived average rating field.
func (r *RecipeCollection) SetAverageRating(ctx context.Context, id string, average float64) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewInvalidIDError(id)
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"averageRating": average}})
	if err != nil {
		return fmt.Errorf("writing average rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewRecipeNotFoundError(id)
	}
	return nil
}

// TopRated returns up to limit recipes ordered by average rating descending,
// optionally restricted to the given cuisines. Ties keep the store's
// natural order.
func (r *RecipeCollection) TopRated(ctx context.Context, cuisines []string, limit int) ([]model.Recipe, error) {
	query := bson.M{}
	if len(cuisines) > 0 {
		query["filters.cuisine"] = bson.M{"$in": cuisines}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("finding top rated recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []model.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decoding recipes: %w", err)
	}
	return recipes, nil
}
