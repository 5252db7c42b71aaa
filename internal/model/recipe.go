package model

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/deppfellow/recipe-catalog/internal/lib/imagefield"
	"github.com/deppfellow/recipe-catalog/internal/validation"
)

// Recipe is a persisted recipe with its ingredient set.
//
// Photo is the path relative to the media root, nil when the recipe has
// no photo.
type Recipe struct {
	Resource
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	Directions  string       `json:"directions" db:"directions"`
	Photo       *string      `json:"-" db:"photo"`
	Ingredients []Ingredient `json:"ingredients" db:"-"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// RecipeResponse is the wire shape of a recipe. Photo is a public URL.
type RecipeResponse struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Directions  string       `json:"directions"`
	Photo       *string      `json:"photo"`
	Ingredients []Ingredient `json:"ingredients"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewRecipeResponse converts r using photoURL to resolve the stored photo
// path.
func NewRecipeResponse(r *Recipe, photoURL func(string) string) *RecipeResponse {
	res := &RecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Directions:  r.Directions,
		Ingredients: r.Ingredients,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if res.Ingredients == nil {
		res.Ingredients = []Ingredient{}
	}
	if r.Photo != nil && *r.Photo != "" {
		url := photoURL(*r.Photo)
		res.Photo = &url
	}
	return res
}

// NewRecipeResponses converts a list of recipes.
func NewRecipeResponses(recipes []Recipe, photoURL func(string) string) []*RecipeResponse {
	out := make([]*RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewRecipeResponse(&recipes[i], photoURL))
	}
	return out
}

// RecipeFields are the scalar columns written on create and update.
type RecipeFields struct {
	Name        string
	Description string
	Directions  string
	Photo       *string
}

// RecipePatch holds the scalar columns an update changes. Nil fields keep
// their stored value.
type RecipePatch struct {
	Name        *string
	Description *string
	Directions  *string
	Photo       *string
}

// Apply overlays the non-nil fields of p onto current.
func (p RecipePatch) Apply(current RecipeFields) RecipeFields {
	if p.Name != nil {
		current.Name = *p.Name
	}
	if p.Description != nil {
		current.Description = *p.Description
	}
	if p.Directions != nil {
		current.Directions = *p.Directions
	}
	if p.Photo != nil {
		current.Photo = p.Photo
	}
	return current
}

// CreateRecipePayload is the body of POST /recipes and POST /add-recipe.
//
// Photo accepts bare base64 or a data URI. Multipart requests may send the
// photo as a file part instead and list ingredients as repeated
// "ingredients" values.
type CreateRecipePayload struct {
	Name        string            `json:"name" form:"name" validate:"required,max=255"`
	Description string            `json:"description" form:"description" validate:"required"`
	Directions  string            `json:"directions" form:"directions" validate:"required"`
	Photo       *string           `json:"photo"`
	Ingredients []IngredientInput `json:"ingredients" validate:"required,dive"`

	PhotoUpload *multipart.FileHeader `json:"-" validate:"-"`

	// PhotoFile is the decoded photo, set by Validate.
	PhotoFile *imagefield.File `json:"-" validate:"-"`
}

func (p *CreateRecipePayload) BindForm(form *multipart.Form) error {
	p.PhotoUpload, p.Photo = formPhoto(form)

	// A multipart body cannot express an empty list, so a missing key means
	// no ingredients.
	p.Ingredients = formIngredients(form.Value["ingredients"])
	return nil
}

func (p *CreateRecipePayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Directions = strings.TrimSpace(p.Directions)
	normalizeIngredients(p.Ingredients)

	if err := validation.Validator().Struct(p); err != nil {
		return err
	}

	file, err := decodePhoto(p.Photo, p.PhotoUpload)
	if err != nil {
		return err
	}
	p.PhotoFile = file
	return nil
}

// Fields returns the scalar columns of the new recipe. The photo path is
// filled in once the photo is stored.
func (p *CreateRecipePayload) Fields() RecipeFields {
	return RecipeFields{
		Name:        p.Name,
		Description: p.Description,
		Directions:  p.Directions,
	}
}

// UpdateRecipePayload is the body of PUT and PATCH /recipes/:id.
//
// Every field is optional; absent fields keep their stored value.
// Ingredients replace the stored set only when a non-empty list is sent.
type UpdateRecipePayload struct {
	ID          int64             `param:"id" json:"-" validate:"required,min=1"`
	Name        *string           `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string           `json:"description" validate:"omitnil,min=1"`
	Directions  *string           `json:"directions" validate:"omitnil,min=1"`
	Photo       *string           `json:"photo"`
	Ingredients []IngredientInput `json:"ingredients" validate:"omitempty,dive"`

	PhotoUpload *multipart.FileHeader `json:"-" validate:"-"`
	PhotoFile   *imagefield.File      `json:"-" validate:"-"`
}

func (p *UpdateRecipePayload) BindForm(form *multipart.Form) error {
	p.Name = formString(form, "name")
	p.Description = formString(form, "description")
	p.Directions = formString(form, "directions")
	p.PhotoUpload, p.Photo = formPhoto(form)

	if values, ok := form.Value["ingredients"]; ok {
		p.Ingredients = formIngredients(values)
	}
	return nil
}

func (p *UpdateRecipePayload) Validate() error {
	for _, field := range []*string{p.Name, p.Description, p.Directions} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	normalizeIngredients(p.Ingredients)

	if err := validation.Validator().Struct(p); err != nil {
		return err
	}

	file, err := decodePhoto(p.Photo, p.PhotoUpload)
	if err != nil {
		return err
	}
	p.PhotoFile = file
	return nil
}

// ReplacesIngredients reports whether the update carries a new ingredient set.
func (p *UpdateRecipePayload) ReplacesIngredients() bool {
	return len(p.Ingredients) > 0
}

// Patch returns the scalar changes carried by p. The photo path is filled
// in once a new photo is stored.
func (p *UpdateRecipePayload) Patch() RecipePatch {
	return RecipePatch{
		Name:        p.Name,
		Description: p.Description,
		Directions:  p.Directions,
	}
}

// ListRecipesQuery is the query string of GET /recipes.
type ListRecipesQuery struct {
	Ingredient string `query:"ingredient" validate:"max=255"`
	Search     string `query:"search" validate:"max=255"`
}

func (q *ListRecipesQuery) Validate() error {
	q.Ingredient = NormalizeName(q.Ingredient)
	q.Search = strings.TrimSpace(q.Search)
	return validation.Validator().Struct(q)
}

func decodePhoto(encoded *string, upload *multipart.FileHeader) (*imagefield.File, error) {
	var (
		file *imagefield.File
		err  error
	)

	switch {
	case upload != nil:
		file, err = imagefield.ToInternalValue(upload)
	case encoded != nil && strings.TrimSpace(*encoded) != "":
		file, err = imagefield.ToInternalValue(*encoded)
	default:
		return nil, nil
	}

	if err != nil {
		return nil, validation.CustomValidationErrors{
			{Field: "photo", Message: imagefield.ErrInvalidImage.Error()},
		}
	}
	return file, nil
}

func formPhoto(form *multipart.Form) (*multipart.FileHeader, *string) {
	if files := form.File["photo"]; len(files) > 0 {
		return files[0], nil
	}
	return nil, formString(form, "photo")
}

func formString(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func formIngredients(values []string) []IngredientInput {
	inputs := make([]IngredientInput, 0, len(values))
	for _, v := range values {
		if v = NormalizeName(v); v != "" {
			inputs = append(inputs, IngredientInput{Name: v})
		}
	}
	return inputs
}

func normalizeIngredients(inputs []IngredientInput) {
	for i := range inputs {
		inputs[i].Name = NormalizeName(inputs[i].Name)
	}
}
