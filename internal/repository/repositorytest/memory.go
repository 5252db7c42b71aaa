// Package repositorytest provides in-memory repositories for service and
// router tests. They report failures the way PostgreSQL does: missing rows
// as pgx.ErrNoRows and constraint failures as *pgconn.PgError.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/recipe-catalog/internal/model"
)

// Memory is an in-memory database shared by the repositories it hands out.
type Memory struct {
	mu sync.Mutex

	seq         map[string]int64
	ingredients []model.Ingredient
	tags        []model.Tag
	recipes     map[int64]*model.Recipe
	links       map[int64][]int64
	reviews     []model.Review
	comments    []model.Comment

	failWrite error
}

func New() *Memory {
	return &Memory{
		seq:     make(map[string]int64),
		recipes: make(map[int64]*model.Recipe),
		links:   make(map[int64][]int64),
	}
}

// FailNextWrite makes the next recipe write return err.
func (m *Memory) FailNextWrite(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = err
}

func (m *Memory) Recipes() *Recipes         { return &Recipes{m: m} }
func (m *Memory) Ingredients() *Ingredients { return &Ingredients{m: m} }
func (m *Memory) Tags() *Tags               { return &Tags{m: m} }
func (m *Memory) Reviews() *Reviews         { return &Reviews{m: m} }
func (m *Memory) Comments() *Comments       { return &Comments{m: m} }

func (m *Memory) next(table string) int64 {
	m.seq[table]++
	return m.seq[table]
}

func (m *Memory) takeFailure() error {
	err := m.failWrite
	m.failWrite = nil
	return err
}

func uniqueViolation(table string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      table,
		ConstraintName: table + "_name_key",
	}
}

func foreignKeyViolation(table string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        "insert or update violates foreign key constraint",
		TableName:      table,
		ConstraintName: table + "_recipe_id_fkey",
	}
}

// Ingredients mirrors repository.IngredientRepository.
type Ingredients struct {
	m *Memory
}

func (r *Ingredients) List(_ context.Context) ([]model.Ingredient, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := append([]model.Ingredient{}, r.m.ingredients...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Ingredients) Create(_ context.Context, name string) (*model.Ingredient, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.findIngredient(name); ok {
		return nil, uniqueViolation("ingredients")
	}
	ingredient := r.m.insertIngredient(name)
	return &ingredient, nil
}

func (m *Memory) findIngredient(name string) (model.Ingredient, bool) {
	for _, in := range m.ingredients {
		if in.Name == name {
			return in, true
		}
	}
	return model.Ingredient{}, false
}

func (m *Memory) insertIngredient(name string) model.Ingredient {
	in := model.Ingredient{Resource: model.Resource{ID: m.next("ingredients")}, Name: name}
	m.ingredients = append(m.ingredients, in)
	return in
}

func (m *Memory) getOrCreateIngredient(name string) model.Ingredient {
	if in, ok := m.findIngredient(name); ok {
		return in
	}
	return m.insertIngredient(name)
}

// Tags mirrors repository.TagRepository.
type Tags struct {
	m *Memory
}

func (r *Tags) List(_ context.Context) ([]model.Tag, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := append([]model.Tag{}, r.m.tags...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Tags) GetOrCreate(_ context.Context, name string) (*model.Tag, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, tag := range r.m.tags {
		if tag.Name == name {
			t := tag
			return &t, nil
		}
	}
	tag := model.Tag{Resource: model.Resource{ID: r.m.next("tags")}, Name: name}
	r.m.tags = append(r.m.tags, tag)
	return &tag, nil
}

// Recipes mirrors repository.RecipeRepository.
type Recipes struct {
	m *Memory
}

func (r *Recipes) List(_ context.Context, query model.ListRecipesQuery) ([]model.Recipe, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	ids := make([]int64, 0, len(r.m.recipes))
	for id := range r.m.recipes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe := r.m.snapshot(id)
		if query.Search != "" && !strings.Contains(strings.ToLower(recipe.Name), strings.ToLower(query.Search)) {
			continue
		}
		if query.Ingredient != "" && !hasIngredient(recipe, query.Ingredient) {
			continue
		}
		out = append(out, *recipe)
	}
	return out, nil
}

func (r *Recipes) Get(_ context.Context, id int64) (*model.Recipe, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.recipes[id]; !ok {
		return nil, pgx.ErrNoRows
	}
	return r.m.snapshot(id), nil
}

func (r *Recipes) Create(_ context.Context, fields model.RecipeFields, ingredients []string) (*model.Recipe, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if err := r.m.takeFailure(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := r.m.next("recipes")
	r.m.recipes[id] = &model.Recipe{
		Resource:    model.Resource{ID: id},
		Name:        fields.Name,
		Description: fields.Description,
		Directions:  fields.Directions,
		Photo:       fields.Photo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.m.link(id, ingredients)
	return r.m.snapshot(id), nil
}

func (r *Recipes) Update(_ context.Context, id int64, patch model.RecipePatch, ingredients []string) (*model.Recipe, *string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if err := r.m.takeFailure(); err != nil {
		return nil, nil, err
	}

	row, ok := r.m.recipes[id]
	if !ok {
		return nil, nil, pgx.ErrNoRows
	}
	previous := row.Photo

	fields := patch.Apply(model.RecipeFields{
		Name:        row.Name,
		Description: row.Description,
		Directions:  row.Directions,
		Photo:       row.Photo,
	})
	row.Name = fields.Name
	row.Description = fields.Description
	row.Directions = fields.Directions
	row.Photo = fields.Photo
	row.UpdatedAt = time.Now().UTC()

	if ingredients != nil {
		r.m.links[id] = nil
		r.m.link(id, ingredients)
	}
	return r.m.snapshot(id), previous, nil
}

func (r *Recipes) Delete(_ context.Context, id int64) (*string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	row, ok := r.m.recipes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	delete(r.m.recipes, id)
	delete(r.m.links, id)

	reviews := r.m.reviews[:0]
	for _, rv := range r.m.reviews {
		if rv.RecipeID != id {
			reviews = append(reviews, rv)
		}
	}
	r.m.reviews = reviews

	comments := r.m.comments[:0]
	for _, c := range r.m.comments {
		if c.RecipeID != id {
			comments = append(comments, c)
		}
	}
	r.m.comments = comments

	return row.Photo, nil
}

func (m *Memory) link(recipeID int64, names []string) {
	for _, name := range names {
		in := m.getOrCreateIngredient(name)
		linked := false
		for _, id := range m.links[recipeID] {
			if id == in.ID {
				linked = true
				break
			}
		}
		if !linked {
			m.links[recipeID] = append(m.links[recipeID], in.ID)
		}
	}
}

func (m *Memory) snapshot(id int64) *model.Recipe {
	recipe := *m.recipes[id]
	if recipe.Photo != nil {
		photo := *recipe.Photo
		recipe.Photo = &photo
	}

	recipe.Ingredients = []model.Ingredient{}
	for _, ingredientID := range m.links[id] {
		for _, in := range m.ingredients {
			if in.ID == ingredientID {
				recipe.Ingredients = append(recipe.Ingredients, in)
			}
		}
	}
	sort.Slice(recipe.Ingredients, func(i, j int) bool {
		return recipe.Ingredients[i].Name < recipe.Ingredients[j].Name
	})
	return &recipe
}

func hasIngredient(recipe *model.Recipe, name string) bool {
	for _, in := range recipe.Ingredients {
		if in.Name == name {
			return true
		}
	}
	return false
}

// Reviews mirrors repository.ReviewRepository.
type Reviews struct {
	m *Memory
}

func (r *Reviews) ListByRecipe(_ context.Context, recipeID int64) ([]model.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []model.Review{}
	for _, rv := range r.m.reviews {
		if rv.RecipeID == recipeID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *Reviews) Create(_ context.Context, recipeID int64, rating int, body string) (*model.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.recipes[recipeID]; !ok {
		return nil, foreignKeyViolation("reviews")
	}
	review := model.Review{
		Resource:  model.Resource{ID: r.m.next("reviews")},
		RecipeID:  recipeID,
		Rating:    rating,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	r.m.reviews = append(r.m.reviews, review)
	return &review, nil
}

// Comments mirrors repository.CommentRepository.
type Comments struct {
	m *Memory
}

func (r *Comments) ListByRecipe(_ context.Context, recipeID int64) ([]model.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []model.Comment{}
	for _, c := range r.m.comments {
		if c.RecipeID == recipeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Comments) Create(_ context.Context, recipeID int64, body string) (*model.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.recipes[recipeID]; !ok {
		return nil, foreignKeyViolation("comments")
	}
	comment := model.Comment{
		Resource:  model.Resource{ID: r.m.next("comments")},
		RecipeID:  recipeID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	r.m.comments = append(r.m.comments, comment)
	return &comment, nil
}
