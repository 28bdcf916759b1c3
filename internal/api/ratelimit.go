// internal/api/ratelimit.go
package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"candidature-api/internal/common/config"
	"candidature-api/internal/common/logger"
)

// RateLimiter enforces a fixed-window per-IP request cap backed by
// Redis, so the limit holds across replicas behind the same proxy.
type RateLimiter struct {
	client *redis.Client
	cfg    config.RateLimit
	logger logger.Logger
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimit, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "rate-limiter"}),
	}
}

// Middleware rejects requests over the window cap with 429. Redis
// failures let the request through; throttling is protection, not a
// dependency the API should die on.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		key := fmt.Sprintf("ratelimit:%s", ip)
		window := time.Duration(rl.cfg.WindowSeconds) * time.Second

		count, err := rl.client.Incr(r.Context(), key).Result()
		if err != nil {
			rl.logger.Warn("rate limit check failed, allowing request", map[string]interface{}{
				"error": err.Error(),
				"ip":    ip,
			})
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.client.Expire(r.Context(), key, window)
		}

		if count > int64(rl.cfg.MaxRequests) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", rl.cfg.WindowSeconds))
			writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"success": false,
				"message": "Trop de requêtes depuis cette adresse IP. Veuillez réessayer plus tard.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr; the RealIP middleware has
// already substituted proxy headers when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
