package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a user-recipe bookmark record, unique per (user_id, recipe_id).
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	RecipeID  string             `bson:"recipe_id" json:"recipe_id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
