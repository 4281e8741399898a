package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://desk.example.com"}
	router := setupTestRouter(CORS(cfg))

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  bool
	}{
		{name: "loopback dev server", method: "GET", origin: "http://localhost:5173", wantStatus: http.StatusOK, wantAllow: true},
		{name: "loopback ip", method: "GET", origin: "http://127.0.0.1:3000", wantStatus: http.StatusOK, wantAllow: true},
		{name: "listed origin", method: "GET", origin: "https://desk.example.com", wantStatus: http.StatusOK, wantAllow: true},
		{name: "preflight", method: "OPTIONS", origin: "http://localhost:5173", wantStatus: http.StatusNoContent, wantAllow: true},
		{name: "foreign origin", method: "GET", origin: "https://evil.example.com", wantStatus: http.StatusForbidden},
		{name: "no origin header", method: "GET", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == "OPTIONS" {
				req.Header.Set("Access-Control-Request-Method", "GET")
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantAllow {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("http://localhost"))
	assert.True(t, isLoopback("http://[::1]:8080"))
	assert.False(t, isLoopback("file://localhost"))
	assert.False(t, isLoopback("http://localhost.example.com"))
	assert.False(t, isLoopback("::"))
}

func serve(router *gin.Engine, remote string) int {
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))

	assert.Equal(t, http.StatusOK, serve(router, "192.168.1.1:1234"))
	assert.Equal(t, http.StatusOK, serve(router, "192.168.1.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "192.168.1.1:1234"))

	// separate bucket per client
	assert.Equal(t, http.StatusOK, serve(router, "192.168.1.2:1234"))
}

func TestLimiterRefillAndPrune(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.Len())

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("c"))
	assert.Equal(t, 1, l.Len())
}

func TestGlobalRateLimit(t *testing.T) {
	router := setupTestRouter(GlobalRateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))

	assert.Equal(t, http.StatusOK, serve(router, "10.0.0.1:1"))
	assert.Equal(t, http.StatusOK, serve(router, "10.0.0.2:1"))
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "10.0.0.3:1"))
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter(RequestID())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Regexp(t, `^req_[0-9A-Z]{26}$`, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "client-supplied", w.Header().Get(RequestIDHeader))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	router := setupTestRouter(RequestID(), Logger(zap.New(core)))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(router, "10.0.0.1:1")
	req := httptest.NewRequest("GET", "/missing", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Request served", entries[0].Message)
	assert.Equal(t, "Request rejected", entries[1].Message)
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
	assert.NotEmpty(t, entries[1].ContextMap()[requestIDKey])
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()

	assert.Equal(t, 100, cfg.RequestsPerSecond)
	assert.Equal(t, 200, cfg.Burst)
	assert.Equal(t, 10*time.Minute, cfg.IdleTTL)
}
