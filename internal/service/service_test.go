package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/recipe-catalog/internal/config"
	"github.com/deppfellow/recipe-catalog/internal/errs"
	"github.com/deppfellow/recipe-catalog/internal/lib/imagefield"
	"github.com/deppfellow/recipe-catalog/internal/lib/media"
	"github.com/deppfellow/recipe-catalog/internal/model"
	"github.com/deppfellow/recipe-catalog/internal/repository/repositorytest"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

type fixture struct {
	services *Services
	memory   *repositorytest.Memory
	media    *media.FileSystem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	storage, err := media.NewFileSystem(filepath.Join(t.TempDir(), "media"), "/media/")
	require.NoError(t, err)

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Media: config.DefaultMediaConfig()},
		Logger: &logger,
		Media:  storage,
	}

	memory := repositorytest.New()
	services, err := NewServices(s, Repositories{
		Recipes:     memory.Recipes(),
		Ingredients: memory.Ingredients(),
		Tags:        memory.Tags(),
		Reviews:     memory.Reviews(),
		Comments:    memory.Comments(),
	})
	require.NoError(t, err)

	return &fixture{services: services, memory: memory, media: storage}
}

func (f *fixture) photoExists(path string) bool {
	_, err := os.Stat(filepath.Join(f.media.Root(), filepath.FromSlash(path)))
	return err == nil
}

func photo(name string) *imagefield.File {
	return &imagefield.File{Name: name, Content: []byte("fake image"), ContentType: "image/png"}
}

func requireStatus(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, status, httpErr.Status)
	return httpErr
}

func createPayload(ingredients ...string) *model.CreateRecipePayload {
	p := &model.CreateRecipePayload{
		Name:        "Soup",
		Description: "Warm",
		Directions:  "Boil",
		Ingredients: []model.IngredientInput{},
	}
	for _, name := range ingredients {
		p.Ingredients = append(p.Ingredients, model.IngredientInput{Name: name})
	}
	return p
}

func TestNewServicesRequiresMedia(t *testing.T) {
	_, err := NewServices(&server.Server{}, Repositories{})
	assert.Error(t, err)
}

func TestRecipeCreateGetsOrCreatesIngredients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Ingredient.Create(ctx, &model.CreateIngredientPayload{Name: "salt"})
	require.NoError(t, err)

	recipe, err := f.services.Recipe.Create(ctx, createPayload("salt", "carrot", "salt"))
	require.NoError(t, err)

	names := []string{}
	for _, in := range recipe.Ingredients {
		names = append(names, in.Name)
	}
	assert.Equal(t, []string{"carrot", "salt"}, names)

	all, err := f.services.Ingredient.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "salt is reused, carrot is created")
}

func TestRecipeCreateStoresPhoto(t *testing.T) {
	f := newFixture(t)

	payload := createPayload("egg")
	payload.PhotoFile = photo("abc123def456.png")

	recipe, err := f.services.Recipe.Create(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, recipe.Photo)
	assert.Equal(t, "photos/abc123def456.png", *recipe.Photo)
	assert.True(t, f.photoExists(*recipe.Photo))
	assert.Equal(t, "/media/photos/abc123def456.png", f.services.Recipe.PhotoURL(*recipe.Photo))
}

func TestRecipeCreateRemovesPhotoWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	f.memory.FailNextWrite(errors.New("boom"))

	payload := createPayload()
	payload.PhotoFile = photo("abc123def456.png")

	_, err := f.services.Recipe.Create(context.Background(), payload)
	require.Error(t, err)
	assert.False(t, f.photoExists("photos/abc123def456.png"))
}

func TestRecipeGetUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Recipe.Get(context.Background(), 999)
	httpErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "RECIPE_NOT_FOUND", httpErr.Code)
}

func TestRecipeUpdateKeepsAbsentFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := createPayload("flour", "water")
	payload.PhotoFile = photo("bread.png")
	created, err := f.services.Recipe.Create(ctx, payload)
	require.NoError(t, err)

	name := "Bread"
	updated, err := f.services.Recipe.Update(ctx, &model.UpdateRecipePayload{ID: created.ID, Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Bread", updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Directions, updated.Directions)
	assert.Equal(t, created.Photo, updated.Photo)
	assert.Equal(t, created.Ingredients, updated.Ingredients)
}

func TestRecipeUpdateEmptyIngredientsKeepsSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Recipe.Create(ctx, createPayload("flour"))
	require.NoError(t, err)

	updated, err := f.services.Recipe.Update(ctx, &model.UpdateRecipePayload{
		ID:          created.ID,
		Ingredients: []model.IngredientInput{},
	})
	require.NoError(t, err)
	assert.Equal(t, created.Ingredients, updated.Ingredients)
}

func TestRecipeUpdateReplacesIngredients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Recipe.Create(ctx, createPayload("flour"))
	require.NoError(t, err)

	updated, err := f.services.Recipe.Update(ctx, &model.UpdateRecipePayload{
		ID:          created.ID,
		Ingredients: []model.IngredientInput{{Name: "rice"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "rice", updated.Ingredients[0].Name)
}

func TestRecipeUpdateReplacesPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := createPayload()
	payload.PhotoFile = photo("old.png")
	created, err := f.services.Recipe.Create(ctx, payload)
	require.NoError(t, err)

	updated, err := f.services.Recipe.Update(ctx, &model.UpdateRecipePayload{
		ID:        created.ID,
		PhotoFile: photo("new.png"),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Photo)
	assert.Equal(t, "photos/new.png", *updated.Photo)
	assert.True(t, f.photoExists("photos/new.png"))
	assert.False(t, f.photoExists("photos/old.png"))
}

func TestRecipeUpdateUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Recipe.Update(context.Background(), &model.UpdateRecipePayload{ID: 42})
	requireStatus(t, err, http.StatusNotFound)
}

func TestRecipeUpdateUnknownRemovesNewPhoto(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Recipe.Update(context.Background(), &model.UpdateRecipePayload{
		ID:        42,
		PhotoFile: photo("orphan.png"),
	})
	requireStatus(t, err, http.StatusNotFound)
	assert.False(t, f.photoExists("photos/orphan.png"))
}

func TestRecipeUpdateFailureKeepsOldPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := createPayload()
	payload.PhotoFile = photo("kept.png")
	created, err := f.services.Recipe.Create(ctx, payload)
	require.NoError(t, err)

	f.memory.FailNextWrite(errors.New("boom"))
	_, err = f.services.Recipe.Update(ctx, &model.UpdateRecipePayload{
		ID:        created.ID,
		PhotoFile: photo("lost.png"),
	})
	require.Error(t, err)

	assert.True(t, f.photoExists("photos/kept.png"))
	assert.False(t, f.photoExists("photos/lost.png"))
}

func TestRecipeDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := createPayload("egg")
	payload.PhotoFile = photo("gone.png")
	created, err := f.services.Recipe.Create(ctx, payload)
	require.NoError(t, err)

	_, err = f.services.Review.Create(ctx, &model.CreateReviewPayload{RecipeID: created.ID, Rating: 4})
	require.NoError(t, err)

	require.NoError(t, f.services.Recipe.Delete(ctx, created.ID))
	assert.False(t, f.photoExists("photos/gone.png"))

	_, err = f.services.Recipe.Get(ctx, created.ID)
	requireStatus(t, err, http.StatusNotFound)

	err = f.services.Recipe.Delete(ctx, created.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestRecipeListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	soup := createPayload("carrot")
	_, err := f.services.Recipe.Create(ctx, soup)
	require.NoError(t, err)

	cake := createPayload("flour")
	cake.Name = "Carrot cake"
	_, err = f.services.Recipe.Create(ctx, cake)
	require.NoError(t, err)

	all, err := f.services.Recipe.List(ctx, &model.ListRecipesQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	withCarrot, err := f.services.Recipe.List(ctx, &model.ListRecipesQuery{Ingredient: "carrot"})
	require.NoError(t, err)
	require.Len(t, withCarrot, 1)
	assert.Equal(t, "Soup", withCarrot[0].Name)

	searched, err := f.services.Recipe.List(ctx, &model.ListRecipesQuery{Search: "cake"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Carrot cake", searched[0].Name)
}

func TestReviewsAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recipe, err := f.services.Recipe.Create(ctx, createPayload())
	require.NoError(t, err)
	other, err := f.services.Recipe.Create(ctx, createPayload())
	require.NoError(t, err)

	_, err = f.services.Review.Create(ctx, &model.CreateReviewPayload{RecipeID: recipe.ID, Rating: 5, Body: "great"})
	require.NoError(t, err)
	_, err = f.services.Review.Create(ctx, &model.CreateReviewPayload{RecipeID: other.ID, Rating: 2})
	require.NoError(t, err)
	_, err = f.services.Comment.Create(ctx, &model.CreateCommentPayload{RecipeID: recipe.ID, Body: "more salt"})
	require.NoError(t, err)

	reviews, err := f.services.Recipe.ListReviews(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)

	comments, err := f.services.Recipe.ListComments(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "more salt", comments[0].Body)

	noComments, err := f.services.Recipe.ListComments(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, noComments)

	_, err = f.services.Recipe.ListReviews(ctx, 999)
	requireStatus(t, err, http.StatusNotFound)

	_, err = f.services.Comment.Create(ctx, &model.CreateCommentPayload{RecipeID: 999, Body: "?"})
	requireStatus(t, err, http.StatusNotFound)
}

func TestTagGetOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.services.Tag.GetOrCreate(ctx, &model.CreateTagPayload{Name: "vegan"})
	require.NoError(t, err)
	second, err := f.services.Tag.GetOrCreate(ctx, &model.CreateTagPayload{Name: "vegan"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	tags, err := f.services.Tag.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestIngredientCreateDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Ingredient.Create(ctx, &model.CreateIngredientPayload{Name: "salt"})
	require.NoError(t, err)

	_, err = f.services.Ingredient.Create(ctx, &model.CreateIngredientPayload{Name: "salt"})
	require.Error(t, err)
}
