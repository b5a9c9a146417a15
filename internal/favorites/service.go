// Package favorites implements user-recipe bookmark bookkeeping.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/smartrecipe/recipe-api/internal/errors"
	"github.com/smartrecipe/recipe-api/model"
	"github.com/smartrecipe/recipe-api/services"
)

// Service records favorites and serves favorite history.
type Service struct {
	favorites services.FavoriteStore
}

// NewService creates a new favorites Service.
func NewService(favorites services.FavoriteStore) (*Service, error) {
	if favorites == nil {
		return nil, fmt.Errorf("favorite store cannot be nil")
	}
	return &Service{favorites: favorites}, nil
}

// Save records the favorite and reports whether a new record was created.
// A duplicate request is a no-op, not an error: both the up-front existence
// check and a uniqueness rejection from the store (the racy case) yield
// saved=false.
func (s *Service) Save(ctx context.Context, recipeID, userID string) (bool, error) {
	exists, err := s.favorites.Exists(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	favorite := &model.Favorite{
		UserID:    userID,
		RecipeID:  recipeID,
		Timestamp: time.Now(),
	}
	if err := s.favorites.Insert(ctx, favorite); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateFavorite) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// History returns the recipe IDs the user has favorited, in the store's
// natural retrieval order.
func (s *Service) History(ctx context.Context, userID string) ([]string, error) {
	favorites, err := s.favorites.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipeIDs := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		recipeIDs = append(recipeIDs, favorite.RecipeID)
	}
	return recipeIDs, nil
}
