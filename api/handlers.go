package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/smartrecipe/recipe-api/internal/errors"
	"github.com/smartrecipe/recipe-api/internal/favorites"
	"github.com/smartrecipe/recipe-api/internal/rating"
	"github.com/smartrecipe/recipe-api/internal/search"
	"github.com/smartrecipe/recipe-api/internal/suggest"
	"github.com/smartrecipe/recipe-api/model"
	"github.com/smartrecipe/recipe-api/services"
)

// API holds dependencies for the HTTP handlers: the store interfaces and
// the services built on top of them.
type API struct {
	recipes services.RecipeStore

	search    *search.Service
	rating    *rating.Service
	favorites *favorites.Service
	suggest   *suggest.Service
}

// NewAPI creates a new API handler structure. With nil stores the routes
// still come up, but every store-backed handler answers 503 until a store
// is wired in.
func NewAPI(recipes services.RecipeStore, favoriteStore services.FavoriteStore) (*API, error) {
	if recipes == nil || favoriteStore == nil {
		return &API{}, nil
	}

	searchService, err := search.NewService(recipes)
	if err != nil {
		return nil, fmt.Errorf("creating search service: %w", err)
	}
	ratingService, err := rating.NewService(recipes)
	if err != nil {
		return nil, fmt.Errorf("creating rating service: %w", err)
	}
	favoriteService, err := favorites.NewService(favoriteStore)
	if err != nil {
		return nil, fmt.Errorf("creating favorites service: %w", err)
	}
	suggestService, err := suggest.NewService(recipes, favoriteStore)
	if err != nil {
		return nil, fmt.Errorf("creating suggestion service: %w", err)
	}

	return &API{
		recipes:   recipes,
		search:    searchService,
		rating:    ratingService,
		favorites: favoriteService,
		suggest:   suggestService,
	}, nil
}

// SetupRoutes defines all the API routes for the recipe service.
func SetupRoutes(router *gin.Engine, recipes services.RecipeStore, favoriteStore services.FavoriteStore) error {
	apiHandler, err := NewAPI(recipes, favoriteStore)
	if err != nil {
		return err
	}

	router.GET("/", apiHandler.RootHandler)
	router.GET("/health", apiHandler.HealthCheckHandler)

	apiRoutes := router.Group("/api")
	{
		apiRoutes.GET("/ingredients", apiHandler.ListIngredientsHandler)

		recipeRoutes := apiRoutes.Group("/recipes")
		{
			recipeRoutes.POST("", apiHandler.CreateRecipeHandler)
			recipeRoutes.POST("/search", apiHandler.SearchRecipesHandler)
			recipeRoutes.POST("/:recipeId/favorite", apiHandler.SaveFavoriteHandler)
			recipeRoutes.POST("/:recipeId/rate", apiHandler.RateRecipeHandler)
		}

		userRoutes := apiRoutes.Group("/user")
		{
			userRoutes.GET("/:userId/history", apiHandler.GetHistoryHandler)
			userRoutes.GET("/:userId/suggestions", apiHandler.GetSuggestionsHandler)
		}
	}

	return nil
}

// storeReady reports whether the document store was wired in, answering
// 503 otherwise.
func (api *API) storeReady(c *gin.Context) bool {
	if api.recipes == nil {
		SendStoreUnavailableError(c)
		return false
	}
	return true
}

// RootHandler answers the root route with a welcome message.
func (api *API) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Smart Recipe API is running."})
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "recipe-api",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// ListIngredientsHandler returns all distinct canonical ingredient names,
// lexicographically sorted.
func (api *API) ListIngredientsHandler(c *gin.Context) {
	if !api.storeReady(c) {
		return
	}

	names, err := api.recipes.DistinctIngredients(c.Request.Context())
	if err != nil {
		SendInternalError(c, "listing ingredients", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

// CreateRecipeRequest defines the payload for creating a recipe.
type CreateRecipeRequest struct {
	Title                   string              `json:"title" binding:"required"`
	Description             string              `json:"description"`
	Ingredients             []model.Ingredient  `json:"ingredients" binding:"required,min=1"`
	Filters                 model.RecipeFilters `json:"filters"`
	SubstitutionSuggestions map[string]string   `json:"substitutionSuggestions"`
}

// CreateRecipeHandler inserts a new recipe document. Ratings start empty
// and the average at zero.
func (api *API) CreateRecipeHandler(c *gin.Context) {
	if !api.storeReady(c) {
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	validation := &ValidationResult{Valid: true}
	for _, ingredient := range req.Ingredients {
		if ingredient.CanonicalName == "" {
			validation.AddError("ingredients", "Every ingredient needs a canonicalName")
			break
		}
	}
	if validation.HasErrors() {
		SendStructuredValidationError(c, validation)
		return
	}

	recipe := model.Recipe{
		Title:                   req.Title,
		Description:             req.Description,
		Ingredients:             req.Ingredients,
		Filters:                 req.Filters,
		SubstitutionSuggestions: req.SubstitutionSuggestions,
		Ratings:                 map[string]int{},
	}
	if err := api.recipes.Create(c.Request.Context(), &recipe); err != nil {
		SendInternalError(c, "creating recipe", err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// SearchRecipesHandler scores and ranks recipes against the user's
// available ingredients and filters.
func (api *API) SearchRecipesHandler(c *gin.Context) {
	if !api.storeReady(c) {
		return
	}

	var query services.SearchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if validation := ValidateIngredients(query.Ingredients); validation.HasErrors() {
		SendStructuredValidationError(c, validation)
		return
	}

	result, err := api.search.Search(c.Request.Context(), query)
	if err != nil {
		SendSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// FavoriteRequest defines the payload for saving a favorite.
type FavoriteRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// SaveFavoriteHandler records a user-recipe bookmark. Saving the same
// favorite twice reports saved=false instead of an error.
func (api *API) SaveFavoriteHandler(c *gin.Context) {
	if !api.storeReady(c) {
		return
	}

	recipeID := c.Param("recipeId")
	if validation := ValidateRecipeID(recipeID); validation.HasErrors() {
		SendInvalidIDError(c, recipeID)
		return
	}

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if validation := ValidateUserID(req.UserID); validation.HasErrors() {
		SendStructuredValidationError(c, validation)
		return
	}

	saved, err := api.favorites.Save(c.Request.Context(), recipeID, req.UserID)
	if err != nil {
		SendInternalError(c, "saving favorite", err)
		return
	}

	message := "Recipe is already a favorite."
	if saved {
		message = "Recipe saved successfully."
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "saved": saved})
}

// RateRequest defines the payload for rating a recipe. The rating range is
// enforced by the binding, not the aggregator.
type RateRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

// RateRecipeHandler merges a per-user rating into the recipe and refreshes
// its average. Rating a nonexistent recipe is a 404.
func (api *API) RateRecipeHandler(c *gin.Context) {
	if !api.storeReady(c) {
		return
	}

	recipeID := c.Param("recipeId")
	if validation := ValidateRecipeID(recipeID); validation.HasErrors() {
		SendInvalidIDError(c, recipeID)
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if validation := ValidateUserID(req.UserID); validation.HasErrors() {
		SendStructuredValidationError(c, validation)
		return
	}

	err := api.rating.Rate(c.Request.Context(), recipeID, req.UserID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRecipeNotFound):
			SendRecipeNotFoundError(c, recipeID)
		case errors.Is(err, apperrors.ErrInvalidID):
			SendInvalidIDError(c, recipeID)
		default:
			SendInternalError(c, "submitting rating", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Rating submitted successfully.",
		"new_rating": req.Rating,
	})
}

// GetHistoryHandler returns the recipe IDs the user has favorited.
func (api *API) GetHistoryHandler(c *gin.Context) {
	if !api.storeReady(c) {
		return
	}

	userID := c.Param("userId")
	recipeIDs, err := api.favorites.History(c.Request.Context(), userID)
	if err != nil {
		SendInternalError(c, "fetching history", err)
		return
	}
	if recipeIDs == nil {
		recipeIDs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"favorites": recipeIDs})
}

// GetSuggestionsHandler returns cuisine-based suggestions for the user.
func (api *API) GetSuggestionsHandler(c *gin.Context) {
	if !api.storeReady(c) {
		return
	}

	userID := c.Param("userId")
	result, err := api.suggest.Suggest(c.Request.Context(), userID)
	if err != nil {
		SendInternalError(c, "building suggestions", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
