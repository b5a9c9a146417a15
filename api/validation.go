// Package api provides validation utilities for API request handling.
package api

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateRecipeID validates a recipe ID path parameter as a store identifier
func ValidateRecipeID(recipeID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if recipeID == "" {
		result.AddError("recipeId", "Recipe ID is required")
		return result
	}

	if _, err := primitive.ObjectIDFromHex(recipeID); err != nil {
		result.AddError("recipeId", "Recipe ID is not a valid identifier")
		return result
	}

	return result
}

// ValidateUserID validates a user identifier. User IDs become rating map
// keys, so a dot would change the document path they address.
func ValidateUserID(userID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(userID) == "" {
		result.AddError("user_id", "User ID is required")
		return result
	}

	if strings.Contains(userID, ".") {
		result.AddError("user_id", "User ID cannot contain '.'")
		return result
	}

	return result
}

// ValidateIngredients rejects blank entries in a search ingredient list
func ValidateIngredients(ingredients []string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	for _, name := range ingredients {
		if strings.TrimSpace(name) == "" {
			result.AddError("ingredients", "Ingredient names cannot be empty or whitespace-only")
			return result
		}
	}

	return result
}
