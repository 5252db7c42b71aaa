package validation

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/recipe-catalog/internal/errs"
)

type itemPayload struct {
	Name string `json:"name" validate:"required,max=10"`
}

type samplePayload struct {
	Title string        `json:"title" form:"title" validate:"required,max=5"`
	Items []itemPayload `json:"items" validate:"dive"`
	Tags  []string      `json:"-"`
}

func (p *samplePayload) Validate() error {
	return Validator().Struct(p)
}

func (p *samplePayload) BindForm(form *multipart.Form) error {
	p.Tags = form.Value["tags"]
	if len(p.Tags) > 2 {
		return CustomValidationErrors{{Field: "tags", Message: "too many"}}
	}
	return nil
}

func newContext(body, contentType string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	return e.NewContext(req, httptest.NewRecorder())
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidateJSON(t *testing.T) {
	c := newContext(`{"title":"soup","items":[{"name":"salt"}]}`, echo.MIMEApplicationJSON)

	payload := &samplePayload{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "soup", payload.Title)
	assert.Len(t, payload.Items, 1)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	c := newContext(`{"title":`, echo.MIMEApplicationJSON)

	err := BindAndValidate(c, &samplePayload{})
	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	c := newContext(`{"title":"much too long","items":[{"name":""}]}`, echo.MIMEApplicationJSON)

	err := BindAndValidate(c, &samplePayload{})
	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)

	fields := map[string]string{}
	for _, fe := range httpErr.Errors {
		fields[fe.Field] = fe.Error
	}
	assert.Equal(t, "must not exceed 5 characters", fields["title"])
	assert.Equal(t, "is required", fields["items[0].name"])
}

func TestBindAndValidateMultipart(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "stew"))
	require.NoError(t, w.WriteField("tags", "a"))
	require.NoError(t, w.WriteField("tags", "b"))
	require.NoError(t, w.Close())

	c := newContext(body.String(), w.FormDataContentType())

	payload := &samplePayload{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "stew", payload.Title)
	assert.Equal(t, []string{"a", "b"}, payload.Tags)
}

func TestBindAndValidateMultipartCustomError(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "stew"))
	for _, tag := range []string{"a", "b", "c"} {
		require.NoError(t, w.WriteField("tags", tag))
	}
	require.NoError(t, w.Close())

	c := newContext(body.String(), w.FormDataContentType())

	err := BindAndValidate(c, &samplePayload{})
	httpErr := requireHTTPError(t, err)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "tags", httpErr.Errors[0].Field)
	assert.Equal(t, "too many", httpErr.Errors[0].Error)
}

func TestBindFormHTTPErrorPassesThrough(t *testing.T) {
	original := errs.NewFieldError("photo", "bad")
	assert.Same(t, original, extractBindFormError(original))
}
