package service

import (
	"context"

	"github.com/deppfellow/recipe-catalog/internal/logger"
	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

type IngredientService struct {
	server      *server.Server
	ingredients IngredientRepository
}

func NewIngredientService(s *server.Server, ingredients IngredientRepository) *IngredientService {
	return &IngredientService{server: s, ingredients: ingredients}
}

func (s *IngredientService) List(ctx context.Context) ([]model.Ingredient, error) {
	return s.ingredients.List(ctx)
}

// Create inserts a new ingredient. Unlike recipe saves, a duplicate name is
// an error here; the unique violation is translated by sqlerr.
func (s *IngredientService) Create(ctx context.Context, payload *model.CreateIngredientPayload) (*model.Ingredient, error) {
	ingredient, err := s.ingredients.Create(ctx, payload.Name)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Int64("ingredient_id", ingredient.ID).
		Str("name", ingredient.Name).
		Msg("ingredient created")
	return ingredient, nil
}
