package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/handler"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

// registerSystemRoutes registers endpoints outside the catalog itself:
// health, docs and the uploaded photos.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if s.Media != nil {
		r.Static("/media", s.Media.Root())
	}
}
