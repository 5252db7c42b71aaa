package handler

import (
	"github.com/deppfellow/recipe-catalog/internal/server"
	"github.com/deppfellow/recipe-catalog/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Recipe     *RecipeHandler
	Ingredient *IngredientHandler
	Tag        *TagHandler
	Review     *ReviewHandler
	Comment    *CommentHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Recipe:     NewRecipeHandler(s, services.Recipe),
		Ingredient: NewIngredientHandler(s, services.Ingredient),
		Tag:        NewTagHandler(s, services.Tag),
		Review:     NewReviewHandler(s, services.Review),
		Comment:    NewCommentHandler(s, services.Comment),
	}
}
