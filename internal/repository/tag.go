package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/recipe-catalog/internal/model"
)

const (
	listTagsSQL = `SELECT id, name FROM tags ORDER BY name`

	getOrCreateTagSQL = `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`
)

type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func (r *TagRepository) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, listTagsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	tags, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Tag])
	if err != nil {
		return nil, fmt.Errorf("failed to collect tags: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.pool.QueryRow(ctx, getOrCreateTagSQL, name).Scan(&tag.ID, &tag.Name); err != nil {
		return nil, fmt.Errorf("failed to get or create tag %q: %w", name, err)
	}
	return &tag, nil
}
