package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("liveness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func serveReadiness(t *testing.T, deps ...Dependency) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := NewReadinessHandler(deps...).Readiness(c); err != nil {
		t.Fatalf("readiness: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, body
}

func TestReadiness_AllHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	rec, body := serveReadiness(t,
		RedisDependency(rdb),
		Dependency{Name: "mongodb", Check: func(context.Context) error { return nil }},
	)
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected redis status: %+v", body.Dependencies["redis"])
	}
}

func TestReadiness_Degraded(t *testing.T) {
	rec, body := serveReadiness(t,
		Dependency{Name: "mongodb", Check: func(context.Context) error { return errors.New("no reachable servers") }},
		Dependency{Name: "redis", Check: func(context.Context) error { return nil }},
	)
	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected degraded, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["mongodb"].Error != "no reachable servers" {
		t.Fatalf("unexpected mongodb status: %+v", body.Dependencies["mongodb"])
	}
}

type seedStatusStub struct {
	ok bool
}

func (s seedStatusStub) SeedStatus(context.Context) (bool, error) { return s.ok, nil }

func TestRoleSeedDependency(t *testing.T) {
	rec, body := serveReadiness(t, RoleSeedDependency(seedStatusStub{ok: false}))
	if rec.Code != http.StatusServiceUnavailable || body.Dependencies["roles"].Status != "unhealthy" {
		t.Fatalf("expected unhealthy roles, got %d %+v", rec.Code, body)
	}

	rec, _ = serveReadiness(t, RoleSeedDependency(seedStatusStub{ok: true}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 once seeded, got %d", rec.Code)
	}
}
