package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/recipe-catalog/internal/model"
)

const recipeColumns = `r.id, r.name, r.description, r.directions, r.photo, r.created_at, r.updated_at`

const (
	listRecipesSQL = `
		SELECT ` + recipeColumns + `
		FROM recipes r
		WHERE ($1::text = '' OR EXISTS (
				SELECT 1
				FROM recipe_ingredients ri
				JOIN ingredients i ON i.id = ri.ingredient_id
				WHERE ri.recipe_id = r.id AND i.name = $1))
		  AND ($2::text = '' OR r.name ILIKE $2)
		ORDER BY r.id`

	getRecipeSQL = `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.id = $1`

	createRecipeSQL = `
		INSERT INTO recipes AS r (name, description, directions, photo)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + recipeColumns

	lockRecipeSQL = `SELECT photo FROM recipes WHERE id = $1 FOR UPDATE`

	// NULL parameters keep the stored value.
	updateRecipeSQL = `
		UPDATE recipes AS r
		SET name = COALESCE($2, r.name),
		    description = COALESCE($3, r.description),
		    directions = COALESCE($4, r.directions),
		    photo = COALESCE($5, r.photo),
		    updated_at = now()
		WHERE r.id = $1
		RETURNING ` + recipeColumns

	deleteRecipeSQL = `DELETE FROM recipes WHERE id = $1 RETURNING photo`

	attachIngredientSQL = `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	clearIngredientsSQL = `DELETE FROM recipe_ingredients WHERE recipe_id = $1`

	recipeIngredientsSQL = `
		SELECT ri.recipe_id, i.id, i.name
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY i.name`
)

type RecipeRepository struct {
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

// List returns recipes ordered by id, optionally filtered by an exact
// ingredient name and a case-insensitive name search.
func (r *RecipeRepository) List(ctx context.Context, query model.ListRecipesQuery) ([]model.Recipe, error) {
	rows, err := r.pool.Query(ctx, listRecipesSQL, query.Ingredient, containsPattern(query.Search))
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Recipe])
	if err != nil {
		return nil, fmt.Errorf("failed to collect recipes: %w", err)
	}

	ptrs := make([]*model.Recipe, len(recipes))
	for i := range recipes {
		ptrs[i] = &recipes[i]
	}
	if err := loadIngredients(ctx, r.pool, ptrs...); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get returns pgx.ErrNoRows when the recipe does not exist.
func (r *RecipeRepository) Get(ctx context.Context, id int64) (*model.Recipe, error) {
	return getRecipe(ctx, r.pool, id)
}

// Create inserts the recipe and links every named ingredient, creating
// missing ingredients on the way. Nothing is written if any step fails.
func (r *RecipeRepository) Create(ctx context.Context, fields model.RecipeFields, ingredients []string) (*model.Recipe, error) {
	var recipe *model.Recipe

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, createRecipeSQL, fields.Name, fields.Description, fields.Directions, fields.Photo)
		if err != nil {
			return err
		}
		recipe, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Recipe])
		if err != nil {
			return err
		}

		if err := attachIngredients(ctx, tx, recipe.ID, ingredients); err != nil {
			return err
		}

		return loadIngredients(ctx, tx, recipe)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// Update applies patch to recipe id and returns the updated recipe with
// the photo path it had before. The row is locked for the whole
// transaction, so concurrent patches of different fields do not undo each
// other. When ingredients is non-nil it replaces the recipe's ingredient
// set.
func (r *RecipeRepository) Update(ctx context.Context, id int64, patch model.RecipePatch, ingredients []string) (*model.Recipe, *string, error) {
	var (
		recipe   *model.Recipe
		previous *string
	)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, lockRecipeSQL, id).Scan(&previous); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, updateRecipeSQL, id, patch.Name, patch.Description, patch.Directions, patch.Photo)
		if err != nil {
			return err
		}
		recipe, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Recipe])
		if err != nil {
			return err
		}

		if ingredients != nil {
			if _, err := tx.Exec(ctx, clearIngredientsSQL, id); err != nil {
				return err
			}
			if err := attachIngredients(ctx, tx, id, ingredients); err != nil {
				return err
			}
		}

		return loadIngredients(ctx, tx, recipe)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update recipe %d: %w", id, err)
	}
	return recipe, previous, nil
}

// Delete removes the recipe with its links, reviews and comments and
// returns the photo path it had.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) (*string, error) {
	var photo *string
	if err := r.pool.QueryRow(ctx, deleteRecipeSQL, id).Scan(&photo); err != nil {
		return nil, fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return photo, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text literally anywhere
// in the value. Empty text yields an empty pattern, which disables the
// filter.
func containsPattern(text string) string {
	if text == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(text) + "%"
}

func getRecipe(ctx context.Context, q querier, id int64) (*model.Recipe, error) {
	rows, err := q.Query(ctx, getRecipeSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}

	recipe, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Recipe])
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}

	if err := loadIngredients(ctx, q, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func attachIngredients(ctx context.Context, q querier, recipeID int64, names []string) error {
	for _, name := range names {
		ingredient, err := getOrCreateIngredient(ctx, q, name)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, attachIngredientSQL, recipeID, ingredient.ID); err != nil {
			return fmt.Errorf("failed to link ingredient %q: %w", name, err)
		}
	}
	return nil
}

// loadIngredients fills Ingredients on every recipe with one query.
func loadIngredients(ctx context.Context, q querier, recipes ...*model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*model.Recipe, len(recipes))
	ids := make([]int64, 0, len(recipes))
	for _, recipe := range recipes {
		recipe.Ingredients = []model.Ingredient{}
		byID[recipe.ID] = recipe
		ids = append(ids, recipe.ID)
	}

	rows, err := q.Query(ctx, recipeIngredientsSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}

	var (
		recipeID   int64
		ingredient model.Ingredient
	)
	_, err = pgx.ForEachRow(rows, []any{&recipeID, &ingredient.ID, &ingredient.Name}, func() error {
		if recipe, ok := byID[recipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, ingredient)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	return nil
}
