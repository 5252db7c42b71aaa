package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
	"github.com/deppfellow/recipe-catalog/internal/service"
)

type IngredientHandler struct {
	Handler
	ingredients *service.IngredientService
}

func NewIngredientHandler(s *server.Server, ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{
		Handler:     NewHandler(s),
		ingredients: ingredients,
	}
}

func (h *IngredientHandler) ListIngredients(c echo.Context, _ *model.NoPayload) ([]model.Ingredient, error) {
	return h.ingredients.List(c.Request().Context())
}

func (h *IngredientHandler) CreateIngredient(c echo.Context, payload *model.CreateIngredientPayload) (*model.Ingredient, error) {
	return h.ingredients.Create(c.Request().Context(), payload)
}
