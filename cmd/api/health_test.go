package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrymatch-backend/internal/infrastructure/database"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

type healthBody struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services"`
	Stats    map[string]struct {
		TotalConns int32 `json:"total_connections"`
		MaxConns   int32 `json:"max_connections"`
	} `json:"stats"`
}

func runHealth(t *testing.T, checks ...healthCheck) (int, healthBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/health", healthCheckHandler("1.2.0", checks...))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth_AllUp(t *testing.T) {
	code, body := runHealth(t,
		healthCheck{name: "database", critical: true, check: ok},
		healthCheck{name: "redis", check: ok},
	)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.0", body.Version)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, body.Services)
	assert.Empty(t, body.Stats)
}

func TestHealth_ReportsPoolStats(t *testing.T) {
	pool := func() (any, error) { return &database.PoolStats{TotalConns: 3, MaxConns: 25}, nil }
	code, body := runHealth(t,
		healthCheck{name: "database", critical: true, check: ok, stats: pool},
	)

	assert.Equal(t, http.StatusOK, code)
	require.Contains(t, body.Stats, "database")
	assert.Equal(t, int32(3), body.Stats["database"].TotalConns)
	assert.Equal(t, int32(25), body.Stats["database"].MaxConns)
}

func TestHealth_SkipsStatsOfFailingCheck(t *testing.T) {
	called := false
	pool := func() (any, error) { called = true; return &database.PoolStats{}, nil }
	_, body := runHealth(t,
		healthCheck{name: "database", critical: true, check: failing, stats: pool},
	)

	assert.False(t, called)
	assert.Empty(t, body.Stats)
}

func TestHealth_OptionalDependencyDown(t *testing.T) {
	code, body := runHealth(t,
		healthCheck{name: "database", critical: true, check: ok},
		healthCheck{name: "redis", check: failing},
	)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "error: connection refused", body.Services["redis"])
}

func TestHealth_CriticalDependencyDown(t *testing.T) {
	code, body := runHealth(t,
		healthCheck{name: "database", critical: true, check: failing},
		healthCheck{name: "storage", critical: true, check: ok},
	)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Services["storage"])
}
