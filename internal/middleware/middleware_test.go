package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, &buf
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) { c.String(http.StatusOK, "ok") }

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", okHandler)

	w := serve(r, http.MethodGet, "/", nil)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS is release-mode only")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", okHandler)
	r.OPTIONS("/", okHandler)

	w := serve(r, http.MethodOptions, "/", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, HEAD, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))

	w = serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCorrelationID(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CorrelationKey))
	})

	t.Run("generated", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/", nil)
		id := w.Header().Get(CorrelationHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/", http.Header{CorrelationHeader: {"abc-123"}})
		assert.Equal(t, "abc-123", w.Header().Get(CorrelationHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("header name is case insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("x-correlation-id", "lower-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "lower-1", w.Header().Get(CorrelationHeader))
	})
}

func TestRequestLogger(t *testing.T) {
	logger, buf := testLogger()
	r := gin.New()
	r.Use(CorrelationID(), RequestLogger(logger))
	r.GET("/ok", okHandler)
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/ok", http.Header{CorrelationHeader: {"req-1"}})
	serve(r, http.MethodGet, "/missing", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Request served", first["msg"])
	assert.Equal(t, "req-1", first["correlation_id"])
	assert.Equal(t, float64(http.StatusOK), first["status"])
	assert.Equal(t, "/ok", first["path"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "warning", second["level"])
}

func TestRecovery(t *testing.T) {
	logger, buf := testLogger()
	r := gin.New()
	r.Use(CorrelationID(), Recovery(logger))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", http.Header{CorrelationHeader: {"req-9"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body domain.CatalogError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrInternalServer, body.Code)
	assert.Equal(t, "req-9", body.RequestID)
	assert.Contains(t, buf.String(), "Handler panicked")
}

func TestNewRateLimiter_InvalidConfig(t *testing.T) {
	logger, _ := testLogger()

	_, err := NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 0, Burst: 1}, logger)
	assert.Error(t, err)
	_, err = NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 1, Burst: 0}, logger)
	assert.Error(t, err)
}

func TestRateLimiter_Allow(t *testing.T) {
	logger, _ := testLogger()
	rl, err := NewRateLimiter(domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}, logger)
	require.NoError(t, err)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "clients have separate buckets")
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiter_Middleware(t *testing.T) {
	logger, buf := testLogger()
	rl, err := NewRateLimiter(domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}, logger)
	require.NoError(t, err)

	r := gin.New()
	r.Use(CorrelationID(), rl.Middleware())
	r.GET("/", okHandler)

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var body domain.CatalogError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrRateLimit, body.Code)
	assert.NotEmpty(t, body.RequestID)
	assert.Contains(t, buf.String(), "Rate limit exceeded")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(3)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/disorders/:id", okHandler)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	serve(r, http.MethodGet, "/api/v1/disorders/a", nil)
	serve(r, http.MethodGet, "/api/v1/disorders/b", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/disorders/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.records))

	w := serve(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "corticogenesis_http_requests_total")
	assert.Contains(t, w.Body.String(), "corticogenesis_catalog_records 3")
}
