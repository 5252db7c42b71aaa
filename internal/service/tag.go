package service

import (
	"context"

	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

type TagService struct {
	server *server.Server
	tags   TagRepository
}

func NewTagService(s *server.Server, tags TagRepository) *TagService {
	return &TagService{server: s, tags: tags}
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tags.List(ctx)
}

// GetOrCreate returns the tag with the payload's name, creating it first
// if it does not exist yet.
func (s *TagService) GetOrCreate(ctx context.Context, payload *model.CreateTagPayload) (*model.Tag, error) {
	return s.tags.GetOrCreate(ctx, payload.Name)
}
