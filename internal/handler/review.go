package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
	"github.com/deppfellow/recipe-catalog/internal/service"
)

type ReviewHandler struct {
	Handler
	reviews *service.ReviewService
}

func NewReviewHandler(s *server.Server, reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		Handler: NewHandler(s),
		reviews: reviews,
	}
}

func (h *ReviewHandler) CreateReview(c echo.Context, payload *model.CreateReviewPayload) (*model.Review, error) {
	return h.reviews.Create(c.Request().Context(), payload)
}
