package service

import (
	"context"

	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

type CommentService struct {
	server   *server.Server
	recipes  *RecipeService
	comments CommentRepository
}

func NewCommentService(s *server.Server, recipes *RecipeService, comments CommentRepository) *CommentService {
	return &CommentService{server: s, recipes: recipes, comments: comments}
}

func (s *CommentService) Create(ctx context.Context, payload *model.CreateCommentPayload) (*model.Comment, error) {
	if _, err := s.recipes.Get(ctx, payload.RecipeID); err != nil {
		return nil, err
	}
	return s.comments.Create(ctx, payload.RecipeID, payload.Body)
}
