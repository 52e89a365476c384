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
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		name     string
		checks   map[string]Check
		wantCode int
		wantDown string
	}{
		{
			name:     "all up",
			checks:   map[string]Check{"redis": RedisCheck(rdb)},
			wantCode: http.StatusOK,
		},
		{
			name: "mongo down",
			checks: map[string]Check{
				"redis":   RedisCheck(rdb),
				"mongodb": func(context.Context) error { return errors.New("no reachable servers") },
			},
			wantCode: http.StatusServiceUnavailable,
			wantDown: "mongodb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewReadinessHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Dependencies["redis"].Status != "ok" {
				t.Fatalf("expected redis ok, got %+v", resp.Dependencies["redis"])
			}
			if tt.wantDown != "" && resp.Dependencies[tt.wantDown].Status != "unhealthy" {
				t.Fatalf("expected %s unhealthy, got %+v", tt.wantDown, resp.Dependencies)
			}
		})
	}
}
