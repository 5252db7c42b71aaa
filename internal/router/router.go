// Package router builds the echo instance: global middleware, the error
// handler and every route group.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/handler"
	"github.com/deppfellow/recipe-catalog/internal/middleware"
	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

// NewRouter wires middleware in order: request id first so every log line
// carries it, then tracing, the request logger, recovery and the limits.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.Global.BodyLimit(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, s, h)
	registerRecipeRoutes(router, h)
	registerCatalogRoutes(router, h)

	return router
}

func registerRecipeRoutes(r *echo.Echo, h *handler.Handlers) {
	recipes := h.Recipe
	base := recipes.Handler

	list := handler.Handle(base, recipes.ListRecipes, http.StatusOK, &model.ListRecipesQuery{})
	create := handler.Handle(base, recipes.CreateRecipe, http.StatusCreated, &model.CreateRecipePayload{})
	update := handler.Handle(base, recipes.UpdateRecipe, http.StatusOK, &model.UpdateRecipePayload{})

	r.GET("/recipes", list)
	r.POST("/recipes", create)
	// Older clients post new recipes here.
	r.POST("/add-recipe", create)

	g := r.Group("/recipes/:id")
	g.GET("", handler.Handle(base, recipes.GetRecipe, http.StatusOK, &model.IDPath{}))
	g.PUT("", update)
	g.PATCH("", update)
	g.DELETE("", handler.HandleNoContent(base, recipes.DeleteRecipe, http.StatusNoContent, &model.IDPath{}))

	g.GET("/reviews", handler.Handle(base, recipes.ListReviews, http.StatusOK, &model.IDPath{}))
	g.POST("/reviews", handler.Handle(h.Review.Handler, h.Review.CreateReview, http.StatusCreated, &model.CreateReviewPayload{}))
	g.GET("/comments", handler.Handle(base, recipes.ListComments, http.StatusOK, &model.IDPath{}))
	g.POST("/comments", handler.Handle(h.Comment.Handler, h.Comment.CreateComment, http.StatusCreated, &model.CreateCommentPayload{}))
}

func registerCatalogRoutes(r *echo.Echo, h *handler.Handlers) {
	ingredients := h.Ingredient
	r.GET("/ingredients", handler.Handle(ingredients.Handler, ingredients.ListIngredients, http.StatusOK, &model.NoPayload{}))
	r.POST("/ingredients", handler.Handle(ingredients.Handler, ingredients.CreateIngredient, http.StatusCreated, &model.CreateIngredientPayload{}))

	tags := h.Tag
	r.GET("/tags", handler.Handle(tags.Handler, tags.ListTags, http.StatusOK, &model.NoPayload{}))
	r.POST("/tags", handler.Handle(tags.Handler, tags.CreateTag, http.StatusOK, &model.CreateTagPayload{}))
}
