package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes func(*httprouter.Router)

func (r routes) RegisterRoutes(router *httprouter.Router) { r(router) }

func text(body string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte(body))
	}
}

type recordingCloser struct {
	name   string
	closed *[]string
	err    error
}

func (c recordingCloser) Close() error {
	*c.closed = append(*c.closed, c.name)
	return c.err
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := config.Defaults()
	cfg.Log = logger.Nop()
	cfg.RateLimitRequests = 2

	a := NewApplication(cfg)
	a.SetApp(
		routes(func(r *httprouter.Router) {
			r.GET("/", text("home"))
			r.POST("/checkout", text("posted"))
		}),
		routes(func(r *httprouter.Router) {
			r.GET("/health", text("healthy"))
			r.GET("/ready", text("ready"))
		}),
	)
	t.Cleanup(a.rateLimiter.Stop)
	return a
}

func TestApplication_Routing(t *testing.T) {
	a := newTestApplication(t)

	for path, want := range map[string]string{"/": "home", "/health": "healthy", "/ready": "ready"} {
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, want, w.Body.String(), path)
	}
}

func TestApplication_FormPostsOnly(t *testing.T) {
	a := newTestApplication(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestApplication_RateLimitsPosts(t *testing.T) {
	a := newTestApplication(t)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("a=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestApplication_ShutdownClosesResources(t *testing.T) {
	a := newTestApplication(t)

	var closed []string
	a.OnShutdown("sessions", recordingCloser{name: "sessions", closed: &closed})
	a.OnShutdown("events", recordingCloser{name: "events", closed: &closed, err: errors.New("broker gone")})
	a.OnShutdown("last", recordingCloser{name: "last", closed: &closed})

	require.NotPanics(t, a.gracefulShutdown)
	assert.Equal(t, []string{"sessions", "events", "last"}, closed)
}
