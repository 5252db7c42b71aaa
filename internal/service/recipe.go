package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/recipe-catalog/internal/lib/imagefield"
	"github.com/deppfellow/recipe-catalog/internal/lib/media"
	"github.com/deppfellow/recipe-catalog/internal/logger"
	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

type RecipeService struct {
	server   *server.Server
	media    media.Storage
	recipes  RecipeRepository
	reviews  ReviewRepository
	comments CommentRepository
}

func NewRecipeService(s *server.Server, recipes RecipeRepository, reviews ReviewRepository, comments CommentRepository) *RecipeService {
	return &RecipeService{
		server:   s,
		media:    s.Media,
		recipes:  recipes,
		reviews:  reviews,
		comments: comments,
	}
}

// PhotoURL resolves a stored photo path to its public URL.
func (s *RecipeService) PhotoURL(path string) string {
	return s.media.URL(path)
}

func (s *RecipeService) List(ctx context.Context, query *model.ListRecipesQuery) ([]model.Recipe, error) {
	return s.recipes.List(ctx, *query)
}

func (s *RecipeService) Get(ctx context.Context, id int64) (*model.Recipe, error) {
	recipe, err := s.recipes.Get(ctx, id)
	if isNotFound(err) {
		return nil, recipeNotFound()
	}
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Create stores the photo, then inserts the recipe and links its
// ingredients, creating missing ones. The photo is removed again if the
// insert fails.
func (s *RecipeService) Create(ctx context.Context, payload *model.CreateRecipePayload) (*model.Recipe, error) {
	log := logger.FromContext(ctx)
	fields := payload.Fields()

	photo, err := s.storePhoto(ctx, payload.PhotoFile)
	if err != nil {
		return nil, err
	}
	if photo != "" {
		fields.Photo = &photo
	}

	recipe, err := s.recipes.Create(ctx, fields, model.IngredientNames(payload.Ingredients))
	if err != nil {
		s.removePhoto(ctx, photo)
		return nil, err
	}

	log.Info().
		Int64("recipe_id", recipe.ID).
		Int("ingredients", len(recipe.Ingredients)).
		Bool("has_photo", recipe.Photo != nil).
		Msg("recipe created")

	return recipe, nil
}

// Update writes the fields present in payload in one locked statement.
// Ingredients are replaced only when a non-empty list is sent. A replaced
// photo file is deleted once the update is committed.
func (s *RecipeService) Update(ctx context.Context, payload *model.UpdateRecipePayload) (*model.Recipe, error) {
	log := logger.FromContext(ctx)
	patch := payload.Patch()

	photo, err := s.storePhoto(ctx, payload.PhotoFile)
	if err != nil {
		return nil, err
	}
	if photo != "" {
		patch.Photo = &photo
	}

	var ingredients []string
	if payload.ReplacesIngredients() {
		ingredients = model.IngredientNames(payload.Ingredients)
	}

	recipe, previous, err := s.recipes.Update(ctx, payload.ID, patch, ingredients)
	if err != nil {
		s.removePhoto(ctx, photo)
		if isNotFound(err) {
			return nil, recipeNotFound()
		}
		return nil, err
	}

	if photo != "" && previous != nil && *previous != photo {
		s.removePhoto(ctx, *previous)
	}

	log.Info().
		Int64("recipe_id", recipe.ID).
		Bool("photo_replaced", photo != "").
		Bool("ingredients_replaced", ingredients != nil).
		Msg("recipe updated")

	return recipe, nil
}

// Delete removes the recipe with its reviews and comments, then its photo.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	photo, err := s.recipes.Delete(ctx, id)
	if isNotFound(err) {
		return recipeNotFound()
	}
	if err != nil {
		return err
	}

	if photo != nil {
		s.removePhoto(ctx, *photo)
	}

	logger.FromContext(ctx).Info().Int64("recipe_id", id).Msg("recipe deleted")
	return nil
}

// ListReviews returns every review of the recipe.
func (s *RecipeService) ListReviews(ctx context.Context, recipeID int64) ([]model.Review, error) {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.reviews.ListByRecipe(ctx, recipeID)
}

// ListComments returns every comment on the recipe.
func (s *RecipeService) ListComments(ctx context.Context, recipeID int64) ([]model.Comment, error) {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.comments.ListByRecipe(ctx, recipeID)
}

func (s *RecipeService) storePhoto(ctx context.Context, file *imagefield.File) (string, error) {
	if file == nil {
		return "", nil
	}

	path, err := s.media.Save(ctx, media.PhotoDir, file)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return path, nil
}

func (s *RecipeService) removePhoto(ctx context.Context, path string) {
	if path == "" {
		return
	}
	// Cleanup runs even when the request was canceled.
	if err := s.media.Delete(context.WithoutCancel(ctx), path); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("photo", path).Msg("failed to remove photo")
	}
}
