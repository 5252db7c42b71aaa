package repository

import (
	"github.com/deppfellow/recipe-catalog/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Recipe     *RecipeRepository
	Ingredient *IngredientRepository
	Tag        *TagRepository
	Review     *ReviewRepository
	Comment    *CommentRepository
}

// NewRepositories builds every repository on top of the shared pool.
func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool
	return &Repositories{
		Recipe:     NewRecipeRepository(pool),
		Ingredient: NewIngredientRepository(pool),
		Tag:        NewTagRepository(pool),
		Review:     NewReviewRepository(pool),
		Comment:    NewCommentRepository(pool),
	}
}
