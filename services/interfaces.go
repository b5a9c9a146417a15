package services

import (
	"context"

	"github.com/smartrecipe/recipe-api/model"
)

// SearchQuery is the ephemeral input of a recipe search: the canonical
// ingredient names the user has available plus optional dietary/time
// filters. Pointer fields distinguish "not provided" from zero values.
type SearchQuery struct {
	Ingredients     []string `json:"ingredients"`
	MaxCookingTime  *int     `json:"max_cooking_time,omitempty"`
	RequiredCuisine string   `json:"required_cuisine,omitempty"`
	IsVegetarian    *bool    `json:"is_vegetarian,omitempty"`
	IsGlutenFree    *bool    `json:"is_gluten_free,omitempty"`
}

// HasFilters reports whether any non-ingredient filter field carries a
// usable value. A zero max cooking time and explicit false flags do not
// count, so they never prevent the empty-query short-circuit.
func (q SearchQuery) HasFilters() bool {
	if q.MaxCookingTime != nil && *q.MaxCookingTime != 0 {
		return true
	}
	if q.RequiredCuisine != "" {
		return true
	}
	if q.IsVegetarian != nil && *q.IsVegetarian {
		return true
	}
	if q.IsGlutenFree != nil && *q.IsGlutenFree {
		return true
	}
	return false
}

// ScoredRecipe is a recipe annotated with the results of coverage scoring.
// CoverageScore is the combined ranking score (coverage plus rating term),
// rounded to four decimal places.
type ScoredRecipe struct {
	model.Recipe
	CoverageScore      float64           `json:"coverageScore"`
	MissingIngredients []string          `json:"missingIngredients"`
	Substitutions      map[string]string `json:"substitutions"`
}

// SearchResult is the ranked outcome of a search, capped at the top N.
type SearchResult struct {
	Results []ScoredRecipe `json:"results"`
}

// SuggestionResult carries cuisine-based suggestions plus a human-readable
// message describing how they were chosen.
type SuggestionResult struct {
	Message string         `json:"message"`
	Results []model.Recipe `json:"results"`
}

// RecipeFilter is the conjunctive store-level predicate built from a
// SearchQuery. Only fields with usable values constrain the result set;
// AnyIngredients, when non-empty, matches recipes containing at least one
// of the given canonical names.
type RecipeFilter struct {
	AnyIngredients []string
	MaxCookingTime *int
	Cuisine        string
	Vegetarian     bool
	GlutenFree     bool
}

// RecipeStore defines the operations the recipe collection must provide.
type RecipeStore interface {
	// Create inserts a new recipe and fills in its assigned ID.
	Create(ctx context.Context, recipe *model.Recipe) error
	// Find retrieves all recipes satisfying the filter.
	Find(ctx context.Context, filter RecipeFilter) ([]model.Recipe, error)
	// FindByIDs retrieves the recipes with the given hex IDs, silently
	// skipping IDs that do not parse or no longer exist.
	FindByIDs(ctx context.Context, ids []string) ([]model.Recipe, error)
	// Get loads a single recipe by hex ID.
	Get(ctx context.Context, id string) (*model.Recipe, error)
	// DistinctIngredients returns all canonical ingredient names across
	// the collection, lexicographically sorted.
	DistinctIngredients(ctx context.Context) ([]string, error)
	// SetUserRating upserts ratings[userID] = rating on the target recipe.
	SetUserRating(ctx context.Context, id, userID string, rating int) error
	// SetAverageRating writes the derived average rating field.
	SetAverageRating(ctx context.Context, id string, average float64) error
	// TopRated returns up to limit recipes ordered by average rating
	// descending, optionally restricted to the given cuisines.
	TopRated(ctx context.Context, cuisines []string, limit int) ([]model.Recipe, error)
}

// FavoriteStore defines the operations the favorites collection must provide.
type FavoriteStore interface {
	// Exists reports whether the user already favorited the recipe.
	Exists(ctx context.Context, userID, recipeID string) (bool, error)
	// Insert stores a new favorite. A uniqueness violation on
	// (user_id, recipe_id) surfaces as errors.ErrDuplicateFavorite.
	Insert(ctx context.Context, favorite *model.Favorite) error
	// FindByUser returns the user's favorites in natural retrieval order.
	FindByUser(ctx context.Context, userID string) ([]model.Favorite, error)
}
