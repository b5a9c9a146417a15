package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/recipe-api/internal/testutil"
)

func setupTestRouter(t *testing.T, store *testutil.MemoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	require.NoError(t, SetupRoutes(router, store, store), "Failed to set up routes")
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), "Failed to decode response body")
	return body
}

func TestRootAndHealthEndpoints(t *testing.T) {
	router := setupTestRouter(t, testutil.NewMemoryStore())

	recorder := performRequest(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Smart Recipe API is running.", decodeBody(t, recorder)["message"])

	recorder = performRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "healthy", decodeBody(t, recorder)["status"])
}

func TestSearchRecipesHandler(t *testing.T) {
	store := testutil.NewMemoryStore()
	recipe := testutil.NewRecipe("Pancakes", "american", 4.0, "egg", "flour", "milk")
	recipe.SubstitutionSuggestions = map[string]string{"milk": "oat milk"}
	testutil.AddRecipe(t, store, recipe)
	router := setupTestRouter(t, store)

	t.Run("scored search result", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/search", gin.H{
			"ingredients": []string{"egg", "flour"},
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		results, ok := body["results"].([]interface{})
		require.True(t, ok, "Response must carry a results array")
		require.Len(t, results, 1)

		hit := results[0].(map[string]interface{})
		assert.Equal(t, "Pancakes", hit["title"])
		assert.InDelta(t, 0.6933, hit["coverageScore"], 1e-9)
		assert.Equal(t, []interface{}{"milk"}, hit["missingIngredients"])
		assert.Equal(t, map[string]interface{}{"milk": "oat milk"}, hit["substitutions"])
	})

	t.Run("empty query returns empty results", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/search", gin.H{})
		require.Equal(t, http.StatusOK, recorder.Code)

		results, ok := decodeBody(t, recorder)["results"].([]interface{})
		require.True(t, ok, "Empty searches still return a results array")
		assert.Empty(t, results)
	})

	t.Run("blank ingredient rejected", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/search", gin.H{
			"ingredients": []string{"egg", "   "},
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, string(ErrorCodeValidationFailed), decodeBody(t, recorder)["code"])
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/recipes/search", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, string(ErrorCodeInvalidJSON), decodeBody(t, recorder)["code"])
	})
}

func TestSaveFavoriteHandler(t *testing.T) {
	store := testutil.NewMemoryStore()
	recipeID := testutil.AddRecipe(t, store, testutil.NewRecipe("Pancakes", "american", 4.0, "egg"))
	router := setupTestRouter(t, store)

	t.Run("first save", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/"+recipeID+"/favorite", gin.H{"user_id": "u1"})
		require.Equal(t, http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(t, "Recipe saved successfully.", body["message"])
		assert.Equal(t, true, body["saved"])
	})

	t.Run("duplicate save", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/"+recipeID+"/favorite", gin.H{"user_id": "u1"})
		require.Equal(t, http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(t, "Recipe is already a favorite.", body["message"])
		assert.Equal(t, false, body["saved"])
		assert.Equal(t, 1, store.FavoriteCount("u1", recipeID))
	})

	t.Run("malformed recipe id", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/not-an-id/favorite", gin.H{"user_id": "u1"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, string(ErrorCodeInvalidID), decodeBody(t, recorder)["code"])
	})

	t.Run("missing user id", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/"+recipeID+"/favorite", gin.H{})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestRateRecipeHandler(t *testing.T) {
	store := testutil.NewMemoryStore()
	recipeID := testutil.AddRecipe(t, store, testutil.NewRecipe("Pancakes", "american", 0, "egg"))
	router := setupTestRouter(t, store)

	t.Run("successful rating", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/"+recipeID+"/rate", gin.H{
			"user_id": "u1",
			"rating":  4,
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(t, "Rating submitted successfully.", body["message"])
		assert.EqualValues(t, 4, body["new_rating"])
	})

	t.Run("rating out of range", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/"+recipeID+"/rate", gin.H{
			"user_id": "u1",
			"rating":  6,
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/65a0000000000000000000ff/rate", gin.H{
			"user_id": "u1",
			"rating":  4,
		})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, string(ErrorCodeRecipeNotFound), decodeBody(t, recorder)["code"])
	})

	t.Run("dotted user id rejected", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/"+recipeID+"/rate", gin.H{
			"user_id": "u.1",
			"rating":  4,
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, string(ErrorCodeValidationFailed), decodeBody(t, recorder)["code"])
	})
}

func TestGetHistoryHandler(t *testing.T) {
	store := testutil.NewMemoryStore()
	first := testutil.AddRecipe(t, store, testutil.NewRecipe("Pancakes", "american", 4.0, "egg"))
	second := testutil.AddRecipe(t, store, testutil.NewRecipe("Waffles", "belgian", 4.5, "flour"))
	router := setupTestRouter(t, store)

	for _, id := range []string{first, second} {
		recorder := performRequest(router, http.MethodPost, "/api/recipes/"+id+"/favorite", gin.H{"user_id": "u1"})
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := performRequest(router, http.MethodGet, "/api/user/u1/history", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []interface{}{first, second}, decodeBody(t, recorder)["favorites"])

	recorder = performRequest(router, http.MethodGet, "/api/user/nobody/history", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []interface{}{}, decodeBody(t, recorder)["favorites"])
}

func TestGetSuggestionsHandler(t *testing.T) {
	store := testutil.NewMemoryStore()
	favoriteID := testutil.AddRecipe(t, store, testutil.NewRecipe("Carbonara", "italian", 4.0, "pasta"))
	testutil.AddRecipe(t, store, testutil.NewRecipe("Margherita", "italian", 4.7, "tomato"))
	testutil.AddRecipe(t, store, testutil.NewRecipe("Pad Thai", "thai", 5.0, "noodles"))
	router := setupTestRouter(t, store)

	recorder := performRequest(router, http.MethodPost, "/api/recipes/"+favoriteID+"/favorite", gin.H{"user_id": "u1"})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(router, http.MethodGet, "/api/user/u1/suggestions", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "Suggestions based on saved cuisines: italian", body["message"])
	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	assert.Len(t, results, 2)

	recorder = performRequest(router, http.MethodGet, "/api/user/newcomer/suggestions", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "No favorites yet. Showing popular recipes.", decodeBody(t, recorder)["message"])
}

func TestListIngredientsHandler(t *testing.T) {
	store := testutil.NewMemoryStore()
	testutil.AddRecipe(t, store, testutil.NewRecipe("Pancakes", "american", 4.0, "egg", "flour"))
	testutil.AddRecipe(t, store, testutil.NewRecipe("Omelette", "french", 3.5, "egg", "butter"))
	router := setupTestRouter(t, store)

	recorder := performRequest(router, http.MethodGet, "/api/ingredients", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var names []string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &names))
	assert.Equal(t, []string{"butter", "egg", "flour"}, names)
}

func TestCreateRecipeHandler(t *testing.T) {
	store := testutil.NewMemoryStore()
	router := setupTestRouter(t, store)

	t.Run("creates recipe", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes", gin.H{
			"title": "Pancakes",
			"ingredients": []gin.H{
				{"canonicalName": "egg", "quantity": 2, "unit": "pcs"},
				{"canonicalName": "flour", "quantity": 200, "unit": "g"},
			},
			"filters": gin.H{"cuisine": "american", "cookingTimeMinutes": 20},
		})
		require.Equal(t, http.StatusCreated, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(t, "Pancakes", body["title"])
		assert.NotEmpty(t, body["id"])
	})

	t.Run("missing title rejected", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes", gin.H{
			"ingredients": []gin.H{{"canonicalName": "egg"}},
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("nameless ingredient rejected", func(t *testing.T) {
		recorder := performRequest(router, http.MethodPost, "/api/recipes", gin.H{
			"title":       "Pancakes",
			"ingredients": []gin.H{{"quantity": 2}},
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, string(ErrorCodeValidationFailed), decodeBody(t, recorder)["code"])
	})
}

func TestStoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	require.NoError(t, SetupRoutes(router, nil, nil), "Routes must come up without a store")

	paths := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/ingredients", nil},
		{http.MethodPost, "/api/recipes/search", gin.H{"ingredients": []string{"egg"}}},
		{http.MethodPost, "/api/recipes/65a000000000000000000001/favorite", gin.H{"user_id": "u1"}},
		{http.MethodPost, "/api/recipes/65a000000000000000000001/rate", gin.H{"user_id": "u1", "rating": 4}},
		{http.MethodGet, "/api/user/u1/history", nil},
		{http.MethodGet, "/api/user/u1/suggestions", nil},
	}

	for _, tt := range paths {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			recorder := performRequest(router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
			assert.Equal(t, string(ErrorCodeStoreUnavailable), decodeBody(t, recorder)["code"])
		})
	}
}
