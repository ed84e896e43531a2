// Package ratelimit guards the public submission endpoint with a
// per-client-IP request limit.
package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var limitedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tipjar_rate_limited_total",
	Help: "Requests rejected by the submission rate limiter",
})

// Result reports the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// BucketStore counts requests per key within a window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Middleware rejects clients that exceed limit requests per window, keyed by
// client IP. Store errors fail open: a broken limiter must not take the form
// down with it.
func Middleware(store BucketStore, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := store.Allow(r.Context(), clientIP(r), limit, window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limit check failed, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !result.Allowed {
				limitedTotal.Inc()
				retryAfter := int(time.Until(result.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "too many submissions, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
