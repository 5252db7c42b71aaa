package model

import "github.com/deppfellow/recipe-catalog/internal/validation"

// Ingredient is uniquely identified by its name.
type Ingredient struct {
	Resource
	Name string `json:"name" db:"name"`
}

// IngredientInput is an ingredient reference inside a recipe payload.
type IngredientInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateIngredientPayload is the body of POST /ingredients.
type CreateIngredientPayload struct {
	Name string `json:"name" form:"name" validate:"required,max=255"`
}

func (p *CreateIngredientPayload) Validate() error {
	p.Name = NormalizeName(p.Name)
	return validation.Validator().Struct(p)
}

// IngredientNames returns the normalized names of inputs, deduplicated and
// in first-seen order.
func IngredientNames(inputs []IngredientInput) []string {
	seen := make(map[string]struct{}, len(inputs))
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		name := NormalizeName(in.Name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
