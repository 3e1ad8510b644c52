package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves GET /health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness reports that the process is up.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// dependencyCheck pings one backend. A nil ping marks the backend disabled.
type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// HealthDependenciesHandler serves GET /health/ready.
type HealthDependenciesHandler struct {
	checks []dependencyCheck
}

// NewHealthDependenciesHandler checks the backends the service was started
// with. Either argument may be nil.
func NewHealthDependenciesHandler(db *mongo.Database, rdb *redis.Client) *HealthDependenciesHandler {
	mongoCheck := dependencyCheck{name: "mongodb"}
	if db != nil {
		mongoCheck.ping = func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		}
	}
	redisCheck := dependencyCheck{name: "redis"}
	if rdb != nil {
		redisCheck.ping = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return &HealthDependenciesHandler{checks: []dependencyCheck{mongoCheck, redisCheck}}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings every enabled backend.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.checks))}
	for _, chk := range h.checks {
		switch {
		case chk.ping == nil:
			resp.Dependencies[chk.name] = dependencyStatus{Status: "disabled"}
		default:
			if err := chk.ping(ctx); err != nil {
				resp.Dependencies[chk.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				resp.Status = "degraded"
				continue
			}
			resp.Dependencies[chk.name] = dependencyStatus{Status: "ok"}
		}
	}

	if resp.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
