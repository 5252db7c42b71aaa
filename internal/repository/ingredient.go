package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/recipe-catalog/internal/model"
)

const (
	listIngredientsSQL = `SELECT id, name FROM ingredients ORDER BY name`

	createIngredientSQL = `INSERT INTO ingredients (name) VALUES ($1) RETURNING id, name`

	// A no-op update makes RETURNING yield the existing row on conflict, so
	// concurrent callers always end up with the same single row.
	getOrCreateIngredientSQL = `
		INSERT INTO ingredients (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`
)

type IngredientRepository struct {
	pool *pgxpool.Pool
}

func NewIngredientRepository(pool *pgxpool.Pool) *IngredientRepository {
	return &IngredientRepository{pool: pool}
}

func (r *IngredientRepository) List(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := r.pool.Query(ctx, listIngredientsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	ingredients, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Ingredient])
	if err != nil {
		return nil, fmt.Errorf("failed to collect ingredients: %w", err)
	}
	return ingredients, nil
}

// Create inserts a new ingredient. A duplicate name fails with a unique
// violation.
func (r *IngredientRepository) Create(ctx context.Context, name string) (*model.Ingredient, error) {
	rows, err := r.pool.Query(ctx, createIngredientSQL, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	ingredient, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Ingredient])
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return ingredient, nil
}

// getOrCreateIngredient returns the ingredient named name, inserting it if
// needed.
func getOrCreateIngredient(ctx context.Context, q querier, name string) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := q.QueryRow(ctx, getOrCreateIngredientSQL, name).Scan(&ingredient.ID, &ingredient.Name); err != nil {
		return nil, fmt.Errorf("failed to get or create ingredient %q: %w", name, err)
	}
	return &ingredient, nil
}
