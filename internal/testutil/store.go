// Package testutil provides in-memory store doubles and fixtures shared by
// tests across packages.
package testutil

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/smartrecipe/recipe-api/internal/errors"
	"github.com/smartrecipe/recipe-api/model"
	"github.com/smartrecipe/recipe-api/services"
)

// MemoryStore is an in-memory stand-in for both the recipe and the favorite
// store interfaces, mimicking the document store's observable semantics
// (insertion retrieval order, $lte/$in filter behavior, unique favorites).
type MemoryStore struct {
	mu        sync.Mutex
	recipes   map[string]*model.Recipe
	order     []string
	favorites []model.Favorite

	// RecipeReads counts recipe collection read operations so tests can
	// assert a code path never touched the store.
	RecipeReads int
	// FailWith, when set, makes every operation return that error.
	FailWith error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recipes: make(map[string]*model.Recipe)}
}

var (
	_ services.RecipeStore   = (*MemoryStore)(nil)
	_ services.FavoriteStore = (*MemoryStore)(nil)
)

// Create inserts a recipe and assigns it a fresh ObjectID.
func (m *MemoryStore) Create(_ context.Context, recipe *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	id := recipe.ID.Hex()
	stored := *recipe
	m.recipes[id] = &stored
	m.order = append(m.order, id)
	return nil
}

// Find returns all recipes satisfying the filter, in insertion order.
func (m *MemoryStore) Find(_ context.Context, filter services.RecipeFilter) ([]model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecipeReads++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	results := make([]model.Recipe, 0)
	for _, id := range m.order {
		recipe := m.recipes[id]
		if matchesFilter(recipe, filter) {
			results = append(results, copyRecipe(recipe))
		}
	}
	return results, nil
}

// FindByIDs returns the recipes with the given hex IDs, skipping IDs that
// do not parse or are unknown.
func (m *MemoryStore) FindByIDs(_ context.Context, ids []string) ([]model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecipeReads++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, err := primitive.ObjectIDFromHex(id); err == nil {
			wanted[id] = true
		}
	}

	results := make([]model.Recipe, 0, len(wanted))
	for _, id := range m.order {
		if wanted[id] {
			results = append(results, copyRecipe(m.recipes[id]))
		}
	}
	return results, nil
}

// Get loads one recipe by hex ID.
func (m *MemoryStore) Get(_ context.Context, id string) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecipeReads++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.NewInvalidIDError(id)
	}
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, apperrors.NewRecipeNotFoundError(id)
	}
	copied := copyRecipe(recipe)
	return &copied, nil
}

// DistinctIngredients returns all canonical ingredient names, sorted.
func (m *MemoryStore) DistinctIngredients(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecipeReads++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, recipe := range m.recipes {
		for _, ingredient := range recipe.Ingredients {
			if !seen[ingredient.CanonicalName] {
				seen[ingredient.CanonicalName] = true
				names = append(names, ingredient.CanonicalName)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// SetUserRating upserts ratings[userID] = rating.
func (m *MemoryStore) SetUserRating(_ context.Context, id, userID string, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperrors.NewInvalidIDError(id)
	}
	recipe, ok := m.recipes[id]
	if !ok {
		return apperrors.NewRecipeNotFoundError(id)
	}
	if recipe.Ratings == nil {
		recipe.Ratings = make(map[string]int)
	}
	recipe.Ratings[userID] = rating
	return nil
}

// SetAverageRating writes the derived average rating field.
func (m *MemoryStore) SetAverageRating(_ context.Context, id string, average float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperrors.NewInvalidIDError(id)
	}
	recipe, ok := m.recipes[id]
	if !ok {
		return apperrors.NewRecipeNotFoundError(id)
	}
	recipe.AverageRating = average
	return nil
}

// TopRated returns up to limit recipes by average rating descending,
// optionally restricted to the given cuisines. Ties keep insertion order.
func (m *MemoryStore) TopRated(_ context.Context, cuisines []string, limit int) ([]model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecipeReads++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	allowed := make(map[string]bool, len(cuisines))
	for _, cuisine := range cuisines {
		allowed[cuisine] = true
	}

	results := make([]model.Recipe, 0)
	for _, id := range m.order {
		recipe := m.recipes[id]
		if len(cuisines) > 0 && !allowed[recipe.Filters.Cuisine] {
			continue
		}
		results = append(results, copyRecipe(recipe))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AverageRating > results[j].AverageRating
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Exists reports whether the user already favorited the recipe.
func (m *MemoryStore) Exists(_ context.Context, userID, recipeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}

	for _, favorite := range m.favorites {
		if favorite.UserID == userID && favorite.RecipeID == recipeID {
			return true, nil
		}
	}
	return false, nil
}

// Insert stores a favorite, rejecting duplicates the way the unique index
// does.
func (m *MemoryStore) Insert(_ context.Context, favorite *model.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	for _, existing := range m.favorites {
		if existing.UserID == favorite.UserID && existing.RecipeID == favorite.RecipeID {
			return apperrors.NewDuplicateFavoriteError(favorite.UserID, favorite.RecipeID)
		}
	}
	if favorite.ID.IsZero() {
		favorite.ID = primitive.NewObjectID()
	}
	m.favorites = append(m.favorites, *favorite)
	return nil
}

// FindByUser returns the user's favorites in insertion order.
func (m *MemoryStore) FindByUser(_ context.Context, userID string) ([]model.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	results := make([]model.Favorite, 0)
	for _, favorite := range m.favorites {
		if favorite.UserID == userID {
			results = append(results, favorite)
		}
	}
	return results, nil
}

// FavoriteCount returns how many favorite records exist for the pair.
func (m *MemoryStore) FavoriteCount(userID, recipeID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, favorite := range m.favorites {
		if favorite.UserID == userID && favorite.RecipeID == recipeID {
			count++
		}
	}
	return count
}

func matchesFilter(recipe *model.Recipe, filter services.RecipeFilter) bool {
	if filter.Vegetarian && !recipe.Filters.IsVegetarian {
		return false
	}
	if filter.GlutenFree && !recipe.Filters.IsGlutenFree {
		return false
	}
	if filter.MaxCookingTime != nil && recipe.Filters.CookingTimeMinutes > *filter.MaxCookingTime {
		return false
	}
	if filter.Cuisine != "" && recipe.Filters.Cuisine != filter.Cuisine {
		return false
	}
	if len(filter.AnyIngredients) > 0 {
		wanted := make(map[string]bool, len(filter.AnyIngredients))
		for _, name := range filter.AnyIngredients {
			wanted[name] = true
		}
		found := false
		for _, ingredient := range recipe.Ingredients {
			if wanted[ingredient.CanonicalName] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func copyRecipe(recipe *model.Recipe) model.Recipe {
	copied := *recipe
	if recipe.Ratings != nil {
		copied.Ratings = make(map[string]int, len(recipe.Ratings))
		for user, rating := range recipe.Ratings {
			copied.Ratings[user] = rating
		}
	}
	return copied
}

// AddRecipe inserts a recipe fixture and returns its hex ID.
func AddRecipe(t *testing.T, store *MemoryStore, recipe model.Recipe) string {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &recipe), "Failed to add recipe fixture")
	return recipe.ID.Hex()
}

// NewRecipe builds a recipe fixture with the given canonical ingredient
// names.
func NewRecipe(title, cuisine string, averageRating float64, ingredients ...string) model.Recipe {
	recipeIngredients := make([]model.Ingredient, 0, len(ingredients))
	for _, name := range ingredients {
		recipeIngredients = append(recipeIngredients, model.Ingredient{CanonicalName: name})
	}
	return model.Recipe{
		Title:         title,
		Ingredients:   recipeIngredients,
		Filters:       model.RecipeFilters{Cuisine: cuisine},
		AverageRating: averageRating,
	}
}
