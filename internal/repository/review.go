package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/recipe-catalog/internal/model"
)

const (
	listReviewsSQL = `
		SELECT id, recipe_id, rating, body, created_at
		FROM reviews
		WHERE recipe_id = $1
		ORDER BY created_at, id`

	createReviewSQL = `
		INSERT INTO reviews (recipe_id, rating, body)
		VALUES ($1, $2, $3)
		RETURNING id, recipe_id, rating, body, created_at`
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsSQL, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return nil, fmt.Errorf("failed to collect reviews: %w", err)
	}
	return reviews, nil
}

// Create fails with a foreign key violation when the recipe does not exist.
func (r *ReviewRepository) Create(ctx context.Context, recipeID int64, rating int, body string) (*model.Review, error) {
	rows, err := r.pool.Query(ctx, createReviewSQL, recipeID, rating, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	review, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Review])
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}
