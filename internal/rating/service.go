// Package rating implements the incremental rating aggregation applied when
// users rate recipes.
package rating

import (
	"context"
	"fmt"
	"math"

	"github.com/smartrecipe/recipe-api/services"
)

// Service merges per-user ratings into a recipe and keeps its derived
// average in sync.
type Service struct {
	recipes services.RecipeStore
}

// NewService creates a new rating Service.
func NewService(recipes services.RecipeStore) (*Service, error) {
	if recipes == nil {
		return nil, fmt.Errorf("recipe store cannot be nil")
	}
	return &Service{recipes: recipes}, nil
}

// Rate upserts ratings[userID] = rating on the recipe and recomputes its
// average. A second rating from the same user replaces the earlier one, so
// the contributor count equals the number of distinct users.
//
// The write-reload-write sequence is three separate store operations, so
// concurrent raters on the same recipe can observe a stale ratings map.
// Correctness is only guaranteed for sequential access to one recipe.
func (s *Service) Rate(ctx context.Context, recipeID, userID string, rating int) error {
	if err := s.recipes.SetUserRating(ctx, recipeID, userID, rating); err != nil {
		return err
	}

	recipe, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("reloading ratings: %w", err)
	}
	if len(recipe.Ratings) == 0 {
		return nil
	}
	return s.recipes.SetAverageRating(ctx, recipeID, Average(recipe.Ratings))
}

// Average returns the arithmetic mean of the per-user ratings rounded to
// one decimal place, or 0 when there are none.
func Average(ratings map[string]int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}
