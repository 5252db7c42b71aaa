package model

import (
	"time"

	"github.com/deppfellow/recipe-catalog/internal/validation"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rated opinion about a recipe.
type Review struct {
	Resource
	RecipeID  int64     `json:"recipe_id" db:"recipe_id"`
	Rating    int       `json:"rating" db:"rating"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateReviewPayload is the body of POST /recipes/:id/reviews.
type CreateReviewPayload struct {
	RecipeID int64  `param:"id" json:"-" validate:"required,min=1"`
	Rating   int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Body     string `json:"body" form:"body" validate:"max=5000"`
}

func (p *CreateReviewPayload) Validate() error {
	return validation.Validator().Struct(p)
}
