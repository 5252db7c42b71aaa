// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data.
package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/recipe-catalog/internal/errs"
	"github.com/deppfellow/recipe-catalog/internal/model"
)

// RecipeRepository persists recipes and their ingredient links.
// Missing recipes are reported as pgx.ErrNoRows.
type RecipeRepository interface {
	List(ctx context.Context, query model.ListRecipesQuery) ([]model.Recipe, error)
	Get(ctx context.Context, id int64) (*model.Recipe, error)
	Create(ctx context.Context, fields model.RecipeFields, ingredients []string) (*model.Recipe, error)
	Update(ctx context.Context, id int64, patch model.RecipePatch, ingredients []string) (*model.Recipe, *string, error)
	Delete(ctx context.Context, id int64) (*string, error)
}

type IngredientRepository interface {
	List(ctx context.Context) ([]model.Ingredient, error)
	Create(ctx context.Context, name string) (*model.Ingredient, error)
}

type TagRepository interface {
	List(ctx context.Context) ([]model.Tag, error)
	GetOrCreate(ctx context.Context, name string) (*model.Tag, error)
}

type ReviewRepository interface {
	ListByRecipe(ctx context.Context, recipeID int64) ([]model.Review, error)
	Create(ctx context.Context, recipeID int64, rating int, body string) (*model.Review, error)
}

type CommentRepository interface {
	ListByRecipe(ctx context.Context, recipeID int64) ([]model.Comment, error)
	Create(ctx context.Context, recipeID int64, body string) (*model.Comment, error)
}

const recipeNotFoundCode = "RECIPE_NOT_FOUND"

func recipeNotFound() *errs.HTTPError {
	code := recipeNotFoundCode
	return errs.NewNotFoundError("Recipe not found", true, &code)
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
