// Package search implements the ingredient-coverage scoring and ranking
// engine behind recipe search.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/smartrecipe/recipe-api/model"
	"github.com/smartrecipe/recipe-api/services"
)

const (
	coverageWeight = 0.8
	ratingWeight   = 0.2
	maxRating      = 5.0

	// maxResults caps the ranked list; there is no further pagination.
	maxResults = 10
)

// Service implements the search and scoring logic over the recipe store.
type Service struct {
	recipes services.RecipeStore
}

// NewService creates a new search Service.
func NewService(recipes services.RecipeStore) (*Service, error) {
	if recipes == nil {
		return nil, fmt.Errorf("recipe store cannot be nil")
	}
	return &Service{recipes: recipes}, nil
}

// Search retrieves the recipes matching the query's conjunctive filter,
// scores each candidate by ingredient coverage and average rating, and
// returns the top results ordered by score descending.
//
// A query with no ingredients and no usable filter short-circuits to an
// empty result without touching the store. Any store or processing error
// aborts the whole request; no partial results are returned.
func (s *Service) Search(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	if len(query.Ingredients) == 0 && !query.HasFilters() {
		return services.SearchResult{Results: []services.ScoredRecipe{}}, nil
	}

	candidates, err := s.recipes.Find(ctx, buildFilter(query))
	if err != nil {
		return services.SearchResult{}, fmt.Errorf("retrieving candidate recipes: %w", err)
	}

	available := make(map[string]bool, len(query.Ingredients))
	for _, name := range query.Ingredients {
		available[name] = true
	}

	scored := make([]services.ScoredRecipe, 0, len(candidates))
	for _, recipe := range candidates {
		annotated, matched := scoreRecipe(recipe, available)
		// Keep a candidate when it shares at least one ingredient with the
		// query, or when the query supplied no ingredients at all (pure
		// filter search includes every filter match).
		if matched > 0 || len(query.Ingredients) == 0 {
			scored = append(scored, annotated)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CoverageScore > scored[j].CoverageScore
	})
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return services.SearchResult{Results: scored}, nil
}

// buildFilter translates the query into the store-level predicate. Boolean
// flags only constrain when explicitly true.
func buildFilter(query services.SearchQuery) services.RecipeFilter {
	filter := services.RecipeFilter{
		AnyIngredients: query.Ingredients,
		MaxCookingTime: query.MaxCookingTime,
		Cuisine:        query.RequiredCuisine,
	}
	if query.IsVegetarian != nil && *query.IsVegetarian {
		filter.Vegetarian = true
	}
	if query.IsGlutenFree != nil && *query.IsGlutenFree {
		filter.GlutenFree = true
	}
	return filter
}

// scoreRecipe computes the coverage-based score for one candidate and
// returns it annotated, along with the matched-ingredient count used by
// the inclusion rule.
//
// coverage = |matched| / |recipe ingredients|, 0 for a recipe with no
// ingredients so an empty list never causes a division error. The rating
// term contributes even at zero coverage, so an unmatched recipe can still
// score above zero.
func scoreRecipe(recipe model.Recipe, available map[string]bool) (services.ScoredRecipe, int) {
	names := recipe.IngredientNames()

	matched := 0
	missing := make([]string, 0, len(names))
	for _, name := range names {
		if available[name] {
			matched++
		} else {
			missing = append(missing, name)
		}
	}

	coverage := 0.0
	if len(names) > 0 {
		coverage = float64(matched) / float64(len(names))
	}
	score := round4(coverageWeight*coverage + ratingWeight*(recipe.AverageRating/maxRating))

	substitutions := make(map[string]string)
	for _, name := range missing {
		if substitute, ok := recipe.SubstitutionSuggestions[name]; ok {
			substitutions[name] = substitute
		}
	}

	return services.ScoredRecipe{
		Recipe:             recipe,
		CoverageScore:      score,
		MissingIngredients: missing,
		Substitutions:      substitutions,
	}, matched
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
