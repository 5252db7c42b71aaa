package model

import "github.com/deppfellow/recipe-catalog/internal/validation"

// Tag labels recipes. Like Ingredient it is unique by name.
type Tag struct {
	Resource
	Name string `json:"name" db:"name"`
}

// CreateTagPayload is the body of POST /tags. Creating an existing tag
// returns the stored one.
type CreateTagPayload struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

func (p *CreateTagPayload) Validate() error {
	p.Name = NormalizeName(p.Name)
	return validation.Validator().Struct(p)
}
