package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
	"github.com/deppfellow/recipe-catalog/internal/service"
)

type TagHandler struct {
	Handler
	tags *service.TagService
}

func NewTagHandler(s *server.Server, tags *service.TagService) *TagHandler {
	return &TagHandler{
		Handler: NewHandler(s),
		tags:    tags,
	}
}

func (h *TagHandler) ListTags(c echo.Context, _ *model.NoPayload) ([]model.Tag, error) {
	return h.tags.List(c.Request().Context())
}

// CreateTag returns the existing tag when the name is already taken.
func (h *TagHandler) CreateTag(c echo.Context, payload *model.CreateTagPayload) (*model.Tag, error) {
	return h.tags.GetOrCreate(c.Request().Context(), payload)
}
