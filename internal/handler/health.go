package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/recipe-catalog/internal/middleware"
	"github.com/deppfellow/recipe-catalog/internal/server"
)

var (
	errDatabaseNotConfigured = errors.New("database is not configured")
	errMediaNotConfigured    = errors.New("media storage is not configured")
)

// HealthHandler reports whether the service and its dependencies are usable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// dependencyCheck probes one dependency.
type dependencyCheck struct {
	name  string
	probe func(ctx context.Context) error
}

func (h *HealthHandler) dependencies() []dependencyCheck {
	return []dependencyCheck{
		{name: "database", probe: h.pingDatabase},
		{name: "media", probe: h.checkMedia},
	}
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.server.DB == nil || h.server.DB.Pool == nil {
		return errDatabaseNotConfigured
	}
	return h.server.DB.Pool.Ping(ctx)
}

func (h *HealthHandler) checkMedia(context.Context) error {
	if h.server.Media == nil {
		return errMediaNotConfigured
	}
	return nil
}

// CheckHealth runs the enabled checks and answers 200, or 503 when any of
// them fails.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	healthy := true

	for _, dep := range h.dependencies() {
		if !h.checkEnabled(dep.name) {
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
		checkStart := time.Now()
		err := dep.probe(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		result := map[string]interface{}{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}

		if err != nil {
			healthy = false
			result["status"] = "unhealthy"
			result["error"] = err.Error()

			logger.Error().
				Err(err).
				Str("check", dep.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordFailure(map[string]interface{}{
				"check_type":       dep.name,
				"operation":        "health_check",
				"error_type":       dep.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}
		checks[dep.name] = result
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !healthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("service unhealthy")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checkEnabled(name string) bool {
	obs := h.server.Config.Observability
	if obs == nil {
		return name == "database"
	}
	return obs.HealthCheckEnabled(name)
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return 5 * time.Second
}

// recordFailure sends a HealthCheckError custom event when New Relic is on.
func (h *HealthHandler) recordFailure(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
