package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"instapic-ticketing/internal/logger"

	"github.com/go-redis/redis/v8"
)

// Limiter is a fixed-window request counter in Redis. It guards the
// endpoints that accept ticket codes, where a 6-digit space is small enough
// to be guessed by brute force.
type Limiter struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
	Logger *logger.Logger
}

func NewLimiter(client *redis.Client, limit int, window time.Duration, log *logger.Logger) *Limiter {
	return &Limiter{
		Client: client,
		Limit:  limit,
		Window: window,
		Logger: log,
	}
}

// Allow counts one request for key and reports whether it is within the
// limit, plus how long until the window resets.
func (l *Limiter) Allow(ctx context.Context, scope, key string) (bool, time.Duration, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", scope, key)

	count, err := l.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.Client.Expire(ctx, redisKey, l.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	ttl, err := l.Client.TTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		// key lost its expiry (e.g. a crash between INCR and EXPIRE)
		if err := l.Client.Expire(ctx, redisKey, l.Window).Err(); err != nil {
			return false, 0, err
		}
		ttl = l.Window
	}

	return count <= int64(l.Limit), ttl, nil
}

// Middleware limits requests per client IP. Redis failures let the request
// through so an outage of the limiter never blocks redemption.
func (l *Limiter) Middleware(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, retryAfter, err := l.Allow(r.Context(), scope, ip)
			if err != nil {
				l.Logger.Warn("RATELIMIT", fmt.Sprintf("Limiter unavailable, allowing %s: %v", ip, err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				l.Logger.LogSecurity("RATE_LIMIT", fmt.Sprintf("%s exceeded %d requests on %s", ip, l.Limit, scope))
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests. Please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
