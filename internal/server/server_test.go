package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deltaphys/errorlab/backend/internal/config"
	"github.com/deltaphys/errorlab/backend/internal/logging"
)

func newTestServer() *Server {
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	log := &logging.Logger{Logger: zap.NewNop()}
	return New(cfg, log)
}

func TestRoutes(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/parse", `{"expr": "a*b"}`, http.StatusOK},
		{http.MethodPost, "/calculate", `{"expr": "a*b", "args": ["a", "b"]}`, http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMetricsExposition(t *testing.T) {
	srv := newTestServer()

	// Generate one request so the counters exist, then scrape.
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backend_http_requests_total")

	id := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, id)
}
