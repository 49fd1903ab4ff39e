package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/turismo/turismo-api/internal/core/ports"
	redisdb "github.com/turismo/turismo-api/internal/infrastructure/db/redis"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health: liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Dependency is a named readiness check.
type Dependency struct {
	Name  string
	Check Check
}

// MongoDependency pings the database with a server round trip.
func MongoDependency(db *mongo.Database) Dependency {
	return Dependency{Name: "mongodb", Check: func(ctx context.Context) error {
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}}
}

// RedisDependency pings the role cache.
func RedisDependency(rdb *redis.Client) Dependency {
	return Dependency{Name: "redis", Check: func(ctx context.Context) error {
		return redisdb.Ping(ctx, rdb, 0)
	}}
}

// SeedReporter is the part of ports.RoleService the readiness probe needs.
type SeedReporter interface {
	SeedStatus(ctx context.Context) (bool, error)
}

var _ SeedReporter = (ports.RoleService)(nil)

// RoleSeedDependency reports unhealthy until the default roles exist.
func RoleSeedDependency(roles SeedReporter) Dependency {
	return Dependency{Name: "roles", Check: func(ctx context.Context) error {
		ok, err := roles.SeedStatus(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("default roles missing")
		}
		return nil
	}}
}

// ReadinessHandler handles GET /health/ready: readiness probe.
type ReadinessHandler struct {
	deps []Dependency
}

func NewReadinessHandler(deps ...Dependency) *ReadinessHandler {
	return &ReadinessHandler{deps: deps}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	var failed []string
	for _, d := range h.deps {
		if err := d.Check(ctx); err != nil {
			deps[d.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			failed = append(failed, d.Name)
			continue
		}
		deps[d.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if len(failed) > 0 {
		sort.Strings(failed)
		c.Logger().Warnf("readiness degraded: %v", failed)
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
