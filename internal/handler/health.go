package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/XPEngine_Go/internal/database"
)

const readinessTimeout = 2 * time.Second

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
	databaseComponent       = "database"
)

// HealthResponse is the body of /healthz and /readyz
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthChecker is a readiness dependency
type HealthChecker interface {
	Name() string
	CheckHealth(ctx context.Context) error
}

type pingChecker struct {
	pool database.Pool
}

func (pingChecker) Name() string { return databaseComponent }

func (c pingChecker) CheckHealth(ctx context.Context) error { return c.pool.Ping(ctx) }

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	}
}

// HandleReadyz runs the database ping and then every checker, reporting each.
// The first failure names the message; later checkers are still reported.
// @Summary Readiness check
// @Description Returns OK when the database answers and all components are running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(dbPool database.Pool, checkers ...HealthChecker) http.HandlerFunc {
	all := append([]HealthChecker{pingChecker{pool: dbPool}}, checkers...)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: healthStatusOK, Checks: make(map[string]string, len(all))}
		for _, c := range all {
			if err := c.CheckHealth(ctx); err != nil {
				slog.Error("Readiness check failed", "component", c.Name(), "error", err)
				resp.Checks[c.Name()] = healthStatusUnavailable
				if resp.Status == healthStatusOK {
					resp.Status = healthStatusUnavailable
					resp.Message = c.Name() + " unavailable"
				}
				continue
			}
			resp.Checks[c.Name()] = healthStatusOK
		}

		status := http.StatusOK
		if resp.Status != healthStatusOK {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, resp)
	}
}
