package service

import (
	"context"

	"github.com/deppfellow/recipe-catalog/internal/logger"
	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

type ReviewService struct {
	server  *server.Server
	recipes *RecipeService
	reviews ReviewRepository
}

func NewReviewService(s *server.Server, recipes *RecipeService, reviews ReviewRepository) *ReviewService {
	return &ReviewService{server: s, recipes: recipes, reviews: reviews}
}

// Create adds a review to an existing recipe.
func (s *ReviewService) Create(ctx context.Context, payload *model.CreateReviewPayload) (*model.Review, error) {
	if _, err := s.recipes.Get(ctx, payload.RecipeID); err != nil {
		return nil, err
	}

	review, err := s.reviews.Create(ctx, payload.RecipeID, payload.Rating, payload.Body)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Int64("recipe_id", review.RecipeID).
		Int("rating", review.Rating).
		Msg("review created")
	return review, nil
}
