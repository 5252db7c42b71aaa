package errs

import (
	"net/http"
)

// newHTTPError builds an HTTPError whose code defaults to the status text
// ("Not Found" => NOT_FOUND) unless code is given.
func newHTTPError(status int, message string, override bool, code *string) *HTTPError {
	e := &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
	if code != nil {
		e.Code = *code
	}
	return e
}

// NewBadRequestError creates a 400. errors carries per-field failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message, override, code)
	e.Errors = errors
	e.Action = action
	return e
}

// NewFieldError creates a 400 with a single field error.
func NewFieldError(field, message string) *HTTPError {
	return NewBadRequestError("Validation failed", true, nil, []FieldError{
		{Field: field, Error: message},
	}, nil)
}

func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, override, code)
}

// NewInternalServerError hides the cause behind the generic status text.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false, nil)
}
