package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/dal"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/mocks"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type brokenStore struct {
	dal.LeagueDAL
}

func (brokenStore) GetSettings() (*models.LeagueSettings, error) {
	return nil, errors.New("connection refused")
}

func probe(t *testing.T, h *Health, target string) (int, map[string]interface{}) {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthy(t *testing.T) {
	store, err := dal.NewMemoryDAL()
	require.NoError(t, err)
	h := NewHealth(store, map[string]Pinger{"clickhouse": mocks.NewMockClickHouseClient()})

	code, body := probe(t, h, "/api/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Contains(t, checks, "database")
	assert.Contains(t, checks, "clickhouse")

	code, body = probe(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])

	code, body = probe(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}

func TestDegradedDependency(t *testing.T) {
	store, err := dal.NewMemoryDAL()
	require.NoError(t, err)
	down := pingFunc(func(context.Context) error { return errors.New("timeout") })
	h := NewHealth(store, map[string]Pinger{"clickhouse": down})

	code, body := probe(t, h, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])

	code, _ = probe(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, code)
}

func TestNotReady(t *testing.T) {
	h := NewHealth(brokenStore{}, nil)

	code, body := probe(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "database_unavailable", body["reason"])

	code, _ = probe(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, code)
}
