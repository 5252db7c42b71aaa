package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
}

func TestHTTPErrorIsMatchesWrapped(t *testing.T) {
	err := fmt.Errorf("loading recipe: %w", NewNotFoundError("Recipe not found", true, nil))

	var httpErr *HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.True(t, errors.Is(err, &HTTPError{}))
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("photo", "upload a valid image")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, []FieldError{{Field: "photo", Error: "upload a valid image"}}, err.Errors)
}

func TestWithMessageCopies(t *testing.T) {
	code := "RECIPE_NOT_FOUND"
	base := NewNotFoundError("not found", false, &code)
	copied := base.WithMessage("Recipe 7 not found")

	assert.Equal(t, "not found", base.Message)
	assert.Equal(t, "Recipe 7 not found", copied.Message)
	assert.Equal(t, code, copied.Code)
}
