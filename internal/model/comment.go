package model

import (
	"time"

	"github.com/deppfellow/recipe-catalog/internal/validation"
)

// Comment is free text attached to a recipe.
type Comment struct {
	Resource
	RecipeID  int64     `json:"recipe_id" db:"recipe_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateCommentPayload is the body of POST /recipes/:id/comments.
type CreateCommentPayload struct {
	RecipeID int64  `param:"id" json:"-" validate:"required,min=1"`
	Body     string `json:"body" form:"body" validate:"required,max=5000"`
}

func (p *CreateCommentPayload) Validate() error {
	return validation.Validator().Struct(p)
}
