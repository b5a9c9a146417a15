package api

import "testing"

func TestValidateRecipeID(t *testing.T) {
	tests := []struct {
		name     string
		recipeID string
		valid    bool
	}{
		{"valid object id", "65a000000000000000000001", true},
		{"empty", "", false},
		{"too short", "abc123", false},
		{"right length, bad hex", "zzzzzzzzzzzzzzzzzzzzzzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateRecipeID(tt.recipeID)
			if result.HasErrors() == tt.valid {
				t.Errorf("ValidateRecipeID(%q) valid = %v, want %v", tt.recipeID, !result.HasErrors(), tt.valid)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		valid  bool
	}{
		{"simple id", "u1", true},
		{"email-like but dotless", "user@example", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"contains dot", "u.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateUserID(tt.userID)
			if result.HasErrors() == tt.valid {
				t.Errorf("ValidateUserID(%q) valid = %v, want %v", tt.userID, !result.HasErrors(), tt.valid)
			}
		})
	}
}

func TestValidateIngredients(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []string
		valid       bool
	}{
		{"nil list", nil, true},
		{"normal names", []string{"egg", "flour"}, true},
		{"empty entry", []string{"egg", ""}, false},
		{"whitespace entry", []string{"egg", "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateIngredients(tt.ingredients)
			if result.HasErrors() == tt.valid {
				t.Errorf("ValidateIngredients(%v) valid = %v, want %v", tt.ingredients, !result.HasErrors(), tt.valid)
			}
		})
	}
}
