package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
	"github.com/deppfellow/recipe-catalog/internal/service"
)

type RecipeHandler struct {
	Handler
	recipes *service.RecipeService
}

func NewRecipeHandler(s *server.Server, recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		Handler: NewHandler(s),
		recipes: recipes,
	}
}

func (h *RecipeHandler) respond(recipe *model.Recipe) *model.RecipeResponse {
	return model.NewRecipeResponse(recipe, h.recipes.PhotoURL)
}

func (h *RecipeHandler) ListRecipes(c echo.Context, query *model.ListRecipesQuery) ([]*model.RecipeResponse, error) {
	recipes, err := h.recipes.List(c.Request().Context(), query)
	if err != nil {
		return nil, err
	}
	return model.NewRecipeResponses(recipes, h.recipes.PhotoURL), nil
}

func (h *RecipeHandler) GetRecipe(c echo.Context, path *model.IDPath) (*model.RecipeResponse, error) {
	recipe, err := h.recipes.Get(c.Request().Context(), path.ID)
	if err != nil {
		return nil, err
	}
	return h.respond(recipe), nil
}

// CreateRecipe accepts JSON with a base64 photo or a multipart form with
// a photo file.
func (h *RecipeHandler) CreateRecipe(c echo.Context, payload *model.CreateRecipePayload) (*model.RecipeResponse, error) {
	recipe, err := h.recipes.Create(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}
	return h.respond(recipe), nil
}

// UpdateRecipe serves both PUT and PATCH. Omitted fields keep their values.
func (h *RecipeHandler) UpdateRecipe(c echo.Context, payload *model.UpdateRecipePayload) (*model.RecipeResponse, error) {
	recipe, err := h.recipes.Update(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}
	return h.respond(recipe), nil
}

func (h *RecipeHandler) DeleteRecipe(c echo.Context, path *model.IDPath) error {
	return h.recipes.Delete(c.Request().Context(), path.ID)
}

func (h *RecipeHandler) ListReviews(c echo.Context, path *model.IDPath) ([]model.Review, error) {
	return h.recipes.ListReviews(c.Request().Context(), path.ID)
}

func (h *RecipeHandler) ListComments(c echo.Context, path *model.IDPath) ([]model.Comment, error) {
	return h.recipes.ListComments(c.Request().Context(), path.ID)
}
