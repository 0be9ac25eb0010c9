package pages

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

var errBackendUnavailable = errors.New("backend circuit breaker is open")

// RegisterHealth mounts the liveness and readiness probes. Readiness runs
// the backend breaker check plus extra.
func (h *Handler) RegisterHealth(e *echo.Echo, extra map[string]Check) {
	checks := map[string]Check{
		"backend": func(context.Context) error {
			if !h.svc.Available() {
				return errBackendUnavailable
			}
			return nil
		},
	}
	for name, check := range extra {
		checks[name] = check
	}

	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}
		return c.JSON(status, report)
	})
}
