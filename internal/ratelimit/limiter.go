// Package ratelimit implements a fixed-window request limiter keyed by
// client IP.
package ratelimit

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/metrics"
)

const keyPrefix = "ratelimit:"

type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// MinWindow is the shortest window a Limiter counts in.
const MinWindow = time.Millisecond

// New creates a Limiter allowing limit requests per window. Windows shorter
// than MinWindow are raised to it.
func New(store Store, limit int, window time.Duration) *Limiter {
	if window < MinWindow {
		window = MinWindow
	}
	return &Limiter{store: store, limit: limit, window: window, now: time.Now}
}

// Result is the outcome of one counted request.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Allow counts a request from client in the current window. Store errors
// let the request through.
func (l *Limiter) Allow(ctx context.Context, client string) Result {
	now := l.now()
	windowIdx := now.UnixMilli() / l.window.Milliseconds()
	reset := time.UnixMilli((windowIdx + 1) * l.window.Milliseconds())
	key := keyPrefix + client + ":" + strconv.FormatInt(windowIdx, 10)

	n, err := l.store.Incr(ctx, key, reset.Sub(now))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("store", l.store.Name()).Msg("rate limiter unavailable, allowing request")
		return Result{Allowed: true, Remaining: l.limit}
	}
	if n > int64(l.limit) {
		return Result{RetryAfter: reset.Sub(now)}
	}
	return Result{Allowed: true, Remaining: l.limit - int(n)}
}

// Middleware rejects clients over the limit with 429 and a Retry-After
// header in seconds.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := l.Allow(r.Context(), clientIP(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			metrics.RateLimitRejections.WithLabelValues(l.store.Name()).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			response.WriteError(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP has
// already replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
