package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheck struct {
	name string
	err  error
}

func (s stubCheck) Name() string               { return s.name }
func (s stubCheck) Ping(context.Context) error { return s.err }

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthAndLive(t *testing.T) {
	r := NewHealthRouter("admin-bot", false)

	rec, body := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "admin-bot", body["service"])

	rec, _ = get(t, r, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReady(t *testing.T) {
	r := NewHealthRouter("admin-bot", false, stubCheck{name: "mongodb"}, stubCheck{name: "redis"})

	rec, body := get(t, r, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyReportsFailingDependency(t *testing.T) {
	r := NewHealthRouter("admin-bot", false,
		stubCheck{name: "mongodb"},
		stubCheck{name: "redis", err: errors.New("dial tcp: connection refused")},
	)

	rec, body := get(t, r, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unready", body["status"])
	assert.Equal(t, "redis unavailable", body["error"])
	assert.Contains(t, body["details"], "connection refused")
}
