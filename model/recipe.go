package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ingredient is a single entry in a recipe's ingredient list. CanonicalName
// is the normalized identity used for matching against user input; the
// remaining fields are display-only.
type Ingredient struct {
	CanonicalName string  `bson:"canonicalName" json:"canonicalName"`
	Quantity      float64 `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Unit          string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

// RecipeFilters holds the filterable metadata of a recipe. Zero values mean
// the attribute is unknown rather than false.
type RecipeFilters struct {
	Cuisine            string `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	CookingTimeMinutes int    `bson:"cookingTimeMinutes,omitempty" json:"cookingTimeMinutes,omitempty"`
	IsVegetarian       bool   `bson:"isVegetarian,omitempty" json:"isVegetarian,omitempty"`
	IsGlutenFree       bool   `bson:"isGlutenFree,omitempty" json:"isGlutenFree,omitempty"`
}

// Recipe is a persisted recipe document.
//
// AverageRating is derived state: it must always equal the arithmetic mean
// of Ratings rounded to one decimal place, and is recomputed after every
// rating write. Ratings is keyed by user ID, so a later rating from the
// same user overwrites the earlier one.
type Recipe struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                   string             `bson:"title" json:"title"`
	Description             string             `bson:"description,omitempty" json:"description,omitempty"`
	Ingredients             []Ingredient       `bson:"ingredients" json:"ingredients"`
	Filters                 RecipeFilters      `bson:"filters" json:"filters"`
	SubstitutionSuggestions map[string]string  `bson:"substitutionSuggestions,omitempty" json:"substitutionSuggestions,omitempty"`
	Ratings                 map[string]int     `bson:"ratings,omitempty" json:"ratings,omitempty"`
	AverageRating           float64            `bson:"averageRating" json:"averageRating"`
	CreatedAt               time.Time          `bson:"created_at" json:"created_at"`
}

// IngredientNames returns the distinct canonical ingredient names of the
// recipe in first-occurrence order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	seen := make(map[string]bool, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if seen[ing.CanonicalName] {
			continue
		}
		seen[ing.CanonicalName] = true
		names = append(names, ing.CanonicalName)
	}
	return names
}
