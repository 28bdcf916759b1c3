// internal/api/ratelimit_test.go
package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidature-api/internal/common/config"
	"candidature-api/internal/common/logger"
)

func newTestLimiter(t *testing.T, maxRequests int) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, config.RateLimit{
		Enabled:       true,
		MaxRequests:   maxRequests,
		WindowSeconds: 900,
	}, logger.NewTestLogger(t))
	return limiter, mr
}

func limitedHandler(limiter *RateLimiter) http.Handler {
	return limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3)
	handler := limitedHandler(limiter)

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, "10.0.0.1:54321")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2)
	handler := limitedHandler(limiter)

	doRequest(handler, "10.0.0.1:54321")
	doRequest(handler, "10.0.0.1:54321")
	rec := doRequest(handler, "10.0.0.1:54321")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "900", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Trop de requêtes")
}

func TestRateLimiter_CountsPerIP(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	handler := limitedHandler(limiter)

	doRequest(handler, "10.0.0.1:54321")
	rec := doRequest(handler, "10.0.0.2:54321")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	handler := limitedHandler(limiter)

	doRequest(handler, "10.0.0.1:54321")
	rec := doRequest(handler, "10.0.0.1:54321")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// The counter key carries the window TTL and resets after it elapses.
	mr.FastForward(901 * time.Second)

	rec = doRequest(handler, "10.0.0.1:54321")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	handler := limitedHandler(limiter)

	mr.Close()

	for i := 0; i < 5; i++ {
		rec := doRequest(handler, "10.0.0.1:54321")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
