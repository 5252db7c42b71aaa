package model

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/recipe-catalog/internal/validation"
)

func pngPayload(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func strPtr(s string) *string { return &s }

func TestCreateRecipePayloadValidate(t *testing.T) {
	photo := pngPayload(t)
	p := &CreateRecipePayload{
		Name:        "  Soup ",
		Description: "Warm",
		Directions:  "Boil",
		Photo:       &photo,
		Ingredients: []IngredientInput{{Name: " carrot "}},
	}

	require.NoError(t, p.Validate())
	assert.Equal(t, "Soup", p.Name)
	assert.Equal(t, "carrot", p.Ingredients[0].Name)
	require.NotNil(t, p.PhotoFile)
	assert.Equal(t, "png", p.PhotoFile.Ext())
}

func TestCreateRecipePayloadRequiresFields(t *testing.T) {
	p := &CreateRecipePayload{Name: "   "}

	err := p.Validate()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]bool{}
	for _, fe := range verrs {
		fields[fe.Field()] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["description"])
	assert.True(t, fields["directions"])
	assert.True(t, fields["ingredients"])
}

func TestCreateRecipePayloadAllowsEmptyIngredients(t *testing.T) {
	p := &CreateRecipePayload{Name: "a", Description: "b", Directions: "c", Ingredients: []IngredientInput{}}
	require.NoError(t, p.Validate())
	assert.Nil(t, p.PhotoFile)
}

func TestCreateRecipePayloadRejectsBadPhoto(t *testing.T) {
	p := &CreateRecipePayload{
		Name: "a", Description: "b", Directions: "c",
		Photo:       strPtr("data:image/png;base64,!!!notbase64"),
		Ingredients: []IngredientInput{},
	}

	err := p.Validate()
	var custom validation.CustomValidationErrors
	require.True(t, errors.As(err, &custom))
	require.Len(t, custom, 1)
	assert.Equal(t, "photo", custom[0].Field)
}

func TestCreateRecipePayloadRejectsNonImage(t *testing.T) {
	text := base64.StdEncoding.EncodeToString([]byte("this is not an image"))
	p := &CreateRecipePayload{
		Name: "a", Description: "b", Directions: "c",
		Photo:       &text,
		Ingredients: []IngredientInput{},
	}

	var custom validation.CustomValidationErrors
	require.True(t, errors.As(p.Validate(), &custom))
	assert.Equal(t, "photo", custom[0].Field)
}

func TestCreateRecipePayloadBindForm(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("ingredients", "salt"))
	require.NoError(t, w.WriteField("ingredients", " "))
	require.NoError(t, w.WriteField("ingredients", "pepper"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	p := &CreateRecipePayload{}
	require.NoError(t, p.BindForm(req.MultipartForm))
	assert.Equal(t, []IngredientInput{{Name: "salt"}, {Name: "pepper"}}, p.Ingredients)
	assert.Nil(t, p.Photo)
	assert.Nil(t, p.PhotoUpload)
}

func TestUpdateRecipePayloadPatch(t *testing.T) {
	p := &UpdateRecipePayload{ID: 1, Name: strPtr(" New ")}
	require.NoError(t, p.Validate())

	patch := p.Patch()
	assert.Nil(t, patch.Description)
	assert.Nil(t, patch.Photo)

	got := patch.Apply(RecipeFields{Name: "Old", Description: "D", Directions: "X"})
	assert.Equal(t, RecipeFields{Name: "New", Description: "D", Directions: "X"}, got)
	assert.False(t, p.ReplacesIngredients())
}

func TestUpdateRecipePayloadRejectsBlankName(t *testing.T) {
	p := &UpdateRecipePayload{ID: 1, Name: strPtr("  ")}
	assert.Error(t, p.Validate())
}

func TestUpdateRecipePayloadIngredients(t *testing.T) {
	p := &UpdateRecipePayload{ID: 1, Ingredients: []IngredientInput{}}
	require.NoError(t, p.Validate())
	assert.False(t, p.ReplacesIngredients())

	p.Ingredients = []IngredientInput{{Name: "salt"}}
	require.NoError(t, p.Validate())
	assert.True(t, p.ReplacesIngredients())
}

func TestUpdateRecipePayloadBindFormKeepsMissingKeys(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("directions", "Stir"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("PATCH", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	p := &UpdateRecipePayload{}
	require.NoError(t, p.BindForm(req.MultipartForm))
	assert.Nil(t, p.Name)
	require.NotNil(t, p.Directions)
	assert.Equal(t, "Stir", *p.Directions)
	assert.Nil(t, p.Ingredients)
}

func TestIngredientNamesDeduplicates(t *testing.T) {
	names := IngredientNames([]IngredientInput{{Name: "salt"}, {Name: " salt"}, {Name: "egg"}})
	assert.Equal(t, []string{"salt", "egg"}, names)
}

func TestNewRecipeResponse(t *testing.T) {
	now := time.Now()
	url := func(p string) string { return "/media/" + p }

	res := NewRecipeResponse(&Recipe{
		Resource:  Resource{ID: 3},
		Name:      "Soup",
		Photo:     strPtr("photos/abc.png"),
		CreatedAt: now,
		UpdatedAt: now,
	}, url)

	assert.Equal(t, int64(3), res.ID)
	require.NotNil(t, res.Photo)
	assert.Equal(t, "/media/photos/abc.png", *res.Photo)
	assert.NotNil(t, res.Ingredients)
	assert.Empty(t, res.Ingredients)

	noPhoto := NewRecipeResponse(&Recipe{Name: "Bread"}, url)
	assert.Nil(t, noPhoto.Photo)
}
