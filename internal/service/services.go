package service

import (
	"errors"

	"github.com/deppfellow/recipe-catalog/internal/repository"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

// Services groups every business service for the handler layer.
type Services struct {
	Recipe     *RecipeService
	Ingredient *IngredientService
	Tag        *TagService
	Review     *ReviewService
	Comment    *CommentService
}

// Repositories is the storage the services depend on. Production code
// fills it from repository.Repositories; tests use in-memory versions.
type Repositories struct {
	Recipes     RecipeRepository
	Ingredients IngredientRepository
	Tags        TagRepository
	Reviews     ReviewRepository
	Comments    CommentRepository
}

// FromRepositories adapts the PostgreSQL repositories.
func FromRepositories(repos *repository.Repositories) Repositories {
	return Repositories{
		Recipes:     repos.Recipe,
		Ingredients: repos.Ingredient,
		Tags:        repos.Tag,
		Reviews:     repos.Review,
		Comments:    repos.Comment,
	}
}

func NewServices(s *server.Server, repos Repositories) (*Services, error) {
	if s.Media == nil {
		return nil, errors.New("media storage is not configured")
	}

	recipes := NewRecipeService(s, repos.Recipes, repos.Reviews, repos.Comments)

	return &Services{
		Recipe:     recipes,
		Ingredient: NewIngredientService(s, repos.Ingredients),
		Tag:        NewTagService(s, repos.Tags),
		Review:     NewReviewService(s, recipes, repos.Reviews),
		Comment:    NewCommentService(s, recipes, repos.Comments),
	}, nil
}
