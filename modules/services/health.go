package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"photogram/modules/middleware/problem"
)

// HealthChecker is satisfied by the Postgres pool and the Redis KV.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Health answers 204 when every named dependency responds in time and 503
// otherwise.
type Health struct {
	checks  map[string]HealthChecker
	timeout time.Duration
}

func NewHealth(timeout time.Duration) *Health {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Health{checks: make(map[string]HealthChecker), timeout: timeout}
}

func (h *Health) With(name string, c HealthChecker) *Health {
	if c != nil {
		h.checks[name] = c
	}
	return h
}

func (h *Health) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var errs []error
	for name, c := range h.checks {
		if err := c.HealthCheck(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Check(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		problem.Write(w, problem.ServiceUnavailable("a dependency is unavailable"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
