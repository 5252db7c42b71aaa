package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
	"github.com/deppfellow/recipe-catalog/internal/service"
)

type CommentHandler struct {
	Handler
	comments *service.CommentService
}

func NewCommentHandler(s *server.Server, comments *service.CommentService) *CommentHandler {
	return &CommentHandler{
		Handler:  NewHandler(s),
		comments: comments,
	}
}

func (h *CommentHandler) CreateComment(c echo.Context, payload *model.CreateCommentPayload) (*model.Comment, error) {
	return h.comments.Create(c.Request().Context(), payload)
}
