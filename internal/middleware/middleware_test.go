package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/recipe-catalog/internal/config"
	"github.com/deppfellow/recipe-catalog/internal/errs"
	"github.com/deppfellow/recipe-catalog/internal/logger"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{BodyLimit: "1K"},
		},
		Logger: &logger,
	}
}

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, errs.HTTPError) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewGlobalMiddlewares(newTestServer()).GlobalErrorHandler(err, c)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGlobalErrorHandlerHTTPError(t *testing.T) {
	rec, body := handleError(t, errs.NewFieldError("photo", "upload a valid image"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body.Code)
	assert.True(t, body.Override)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "photo", body.Errors[0].Field)
}

func TestGlobalErrorHandlerRouteNotFound(t *testing.T) {
	rec, body := handleError(t, echo.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body.Message)
}

func TestGlobalErrorHandlerEchoError(t *testing.T) {
	rec, body := handleError(t, echo.ErrStatusRequestEntityTooLarge)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "REQUEST_ENTITY_TOO_LARGE", body.Code)
}

func TestGlobalErrorHandlerUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		TableName:      "ingredients",
		ConstraintName: "ingredients_name_key",
	}
	rec, body := handleError(t, fmt.Errorf("failed to create ingredient: %w", pgErr))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INGREDIENT_ALREADY_EXISTS", body.Code)
}

func TestGlobalErrorHandlerNoRows(t *testing.T) {
	rec, _ := handleError(t, fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGlobalErrorHandlerUnknownError(t *testing.T) {
	rec, body := handleError(t, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestEnhanceContextStoresLogger(t *testing.T) {
	e := echo.New()
	mw := NewContextEnhancer(newTestServer()).EnhanceContext()

	var fromEcho, fromCtx *zerolog.Logger
	handler := mw(func(c echo.Context) error {
		fromEcho = GetLogger(c)
		fromCtx = logger.FromContext(c.Request().Context())
		return nil
	})

	require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
	require.NotNil(t, fromEcho)
	assert.Same(t, fromEcho, fromCtx)
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer()
	s.Config.Server.RateLimit = 1

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/recipes", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimitMiddleware(newTestServer()).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for range 10 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
