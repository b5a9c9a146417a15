package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrStoreUnavailable is returned when the document store has not been initialized
	ErrStoreUnavailable = errors.New("store not initialized")

	// ErrRecipeNotFound is returned when a recipe is not found
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrInvalidID is returned when an identifier does not parse as a store identifier
	ErrInvalidID = errors.New("invalid identifier")

	// ErrDuplicateFavorite is returned when a favorite already exists for a (user, recipe) pair
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

// RecipeNotFoundError represents a recipe not found error with context
type RecipeNotFoundError struct {
	RecipeID string
}

func (e *RecipeNotFoundError) Error() string {
	return fmt.Sprintf("recipe with ID '%s' not found", e.RecipeID)
}

func (e *RecipeNotFoundError) Is(target error) bool {
	return target == ErrRecipeNotFound
}

// NewRecipeNotFoundError creates a new RecipeNotFoundError
func NewRecipeNotFoundError(recipeID string) *RecipeNotFoundError {
	return &RecipeNotFoundError{RecipeID: recipeID}
}

// InvalidIDError represents a malformed identifier error with context
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("'%s' is not a valid identifier", e.ID)
}

func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}

// NewInvalidIDError creates a new InvalidIDError
func NewInvalidIDError(id string) *InvalidIDError {
	return &InvalidIDError{ID: id}
}

// DuplicateFavoriteError represents a duplicate favorite insert with context
type DuplicateFavoriteError struct {
	UserID   string
	RecipeID string
}

func (e *DuplicateFavoriteError) Error() string {
	return fmt.Sprintf("user '%s' already favorited recipe '%s'", e.UserID, e.RecipeID)
}

func (e *DuplicateFavoriteError) Is(target error) bool {
	return target == ErrDuplicateFavorite
}

// NewDuplicateFavoriteError creates a new DuplicateFavoriteError
func NewDuplicateFavoriteError(userID, recipeID string) *DuplicateFavoriteError {
	return &DuplicateFavoriteError{UserID: userID, RecipeID: recipeID}
}
