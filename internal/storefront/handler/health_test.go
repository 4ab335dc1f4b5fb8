package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/checkout/session"
	"storefront/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unreachableStore struct {
	session.Store
}

func (unreachableStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

type staticMetrics map[string]any

func (m staticMetrics) Snapshot() map[string]any { return m }

func serveHealth(t *testing.T, h *HealthHandler, path string) (int, HealthResponse) {
	t.Helper()
	router := httprouter.New()
	h.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth(t *testing.T) {
	code, body := serveHealth(t, NewHealthHandler(unreachableStore{}, nil, logger.Nop()), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestReady(t *testing.T) {
	store := session.NewMemoryStore(time.Minute, time.Second)
	defer store.Close()

	code, body := serveHealth(t, NewHealthHandler(store, staticMetrics{"published": float64(3)}, logger.Nop()), "/ready")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "ok", body.Sessions)
	assert.Equal(t, float64(3), body.Events["published"])
}

func TestReady_StoreDown(t *testing.T) {
	code, body := serveHealth(t, NewHealthHandler(unreachableStore{}, nil, logger.Nop()), "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "error", body.Sessions)
	assert.Nil(t, body.Events)
}
