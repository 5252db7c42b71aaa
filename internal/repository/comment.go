package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/recipe-catalog/internal/model"
)

const (
	listCommentsSQL = `
		SELECT id, recipe_id, body, created_at
		FROM comments
		WHERE recipe_id = $1
		ORDER BY created_at, id`

	createCommentSQL = `
		INSERT INTO comments (recipe_id, body)
		VALUES ($1, $2)
		RETURNING id, recipe_id, body, created_at`
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, listCommentsSQL, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
	if err != nil {
		return nil, fmt.Errorf("failed to collect comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, recipeID int64, body string) (*model.Comment, error) {
	rows, err := r.pool.Query(ctx, createCommentSQL, recipeID, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	comment, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Comment])
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}
