package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava enforces two rolling limits per application: 100 requests per
// 15 minutes and 1000 per day. Actual numbers come back on every response
// in X-RateLimit-Limit / X-RateLimit-Usage as "short,daily" pairs.

// window tracks one rate-limit bucket
type window struct {
	limit    int
	usage    int
	resetsAt time.Time
	span     time.Duration
}

func (w *window) reset(now time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = now.Add(w.span)
	}
}

func (w *window) full() bool {
	return w.usage >= w.limit
}

// RateLimiter paces requests against Strava's published limits
type RateLimiter struct {
	mu    sync.Mutex
	short window
	daily window

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter returns a limiter preloaded with Strava's default limits
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		short: window{limit: 100, resetsAt: now.Add(15 * time.Minute), span: 15 * time.Minute},
		daily: window{limit: 1000, resetsAt: now.Truncate(24 * time.Hour).Add(24 * time.Hour), span: 24 * time.Hour},
		minInterval: 150 * time.Millisecond,
	}
}

// Wait blocks until a request can go out without blowing a limit
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.short.reset(now)
	r.daily.reset(now)

	for _, w := range []*window{&r.short, &r.daily} {
		if !w.full() {
			continue
		}
		if err := r.sleep(ctx, time.Until(w.resetsAt)); err != nil {
			return err
		}
		w.usage = 0
		w.resetsAt = time.Now().Add(w.span)
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()

	return nil
}

// sleep releases the lock while waiting; callers hold r.mu
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders syncs local counters with the server's authoritative
// numbers from a response
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage = short
		r.daily.usage = daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit = short
		r.daily.limit = daily
	}
}

// parsePair splits a "short,daily" header value
func parsePair(v string) (short, daily int, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	short, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	daily, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return short, daily, true
}

// Status returns remaining requests in each window
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}
