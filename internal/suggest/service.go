// Package suggest produces cuisine-based recipe suggestions from a user's
// favorites.
package suggest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartrecipe/recipe-api/model"
	"github.com/smartrecipe/recipe-api/services"
)

const maxSuggestions = 5

// Service recommends recipes based on the cuisines of a user's favorites,
// falling back to the highest-rated recipes for users without any.
type Service struct {
	recipes   services.RecipeStore
	favorites services.FavoriteStore
}

// NewService creates a new suggestion Service.
func NewService(recipes services.RecipeStore, favorites services.FavoriteStore) (*Service, error) {
	if recipes == nil {
		return nil, fmt.Errorf("recipe store cannot be nil")
	}
	if favorites == nil {
		return nil, fmt.Errorf("favorite store cannot be nil")
	}
	return &Service{recipes: recipes, favorites: favorites}, nil
}

// Suggest returns up to five suggested recipes with a message explaining
// how they were chosen.
//
// When favorites exist but none carries a usable cuisine the result is
// empty rather than falling back to popular recipes. That asymmetry is
// kept on purpose to preserve the established client-visible behavior.
func (s *Service) Suggest(ctx context.Context, userID string) (services.SuggestionResult, error) {
	favorites, err := s.favorites.FindByUser(ctx, userID)
	if err != nil {
		return services.SuggestionResult{}, err
	}

	if len(favorites) == 0 {
		popular, err := s.recipes.TopRated(ctx, nil, maxSuggestions)
		if err != nil {
			return services.SuggestionResult{}, err
		}
		return services.SuggestionResult{
			Message: "No favorites yet. Showing popular recipes.",
			Results: ensureResults(popular),
		}, nil
	}

	// Favorites can reference recipes that were deleted or carry malformed
	// IDs; both are skipped rather than failing the request.
	validIDs := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		if _, err := primitive.ObjectIDFromHex(favorite.RecipeID); err == nil {
			validIDs = append(validIDs, favorite.RecipeID)
		}
	}
	if len(validIDs) == 0 {
		return services.SuggestionResult{
			Message: "Could not find valid favorites for suggestions.",
			Results: []model.Recipe{},
		}, nil
	}

	favoriteRecipes, err := s.recipes.FindByIDs(ctx, validIDs)
	if err != nil {
		return services.SuggestionResult{}, err
	}

	cuisines := distinctCuisines(favoriteRecipes)
	if len(cuisines) == 0 {
		return services.SuggestionResult{
			Message: "Showing popular recipes (filter fallback).",
			Results: []model.Recipe{},
		}, nil
	}

	suggestions, err := s.recipes.TopRated(ctx, cuisines, maxSuggestions)
	if err != nil {
		return services.SuggestionResult{}, err
	}
	return services.SuggestionResult{
		Message: "Suggestions based on saved cuisines: " + strings.Join(cuisines, ", "),
		Results: ensureResults(suggestions),
	}, nil
}

// distinctCuisines collects the distinct non-empty cuisines of the given
// recipes, sorted for a stable message.
func distinctCuisines(recipes []model.Recipe) []string {
	seen := make(map[string]bool)
	cuisines := make([]string, 0)
	for _, recipe := range recipes {
		cuisine := recipe.Filters.Cuisine
		if cuisine != "" && !seen[cuisine] {
			seen[cuisine] = true
			cuisines = append(cuisines, cuisine)
		}
	}
	sort.Strings(cuisines)
	return cuisines
}

func ensureResults(recipes []model.Recipe) []model.Recipe {
	if recipes == nil {
		return []model.Recipe{}
	}
	return recipes
}
