// Package ratelimiter provides a fixed-window request limiter.
package ratelimiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter caps the number of operations per key within a fixed window.
// It is safe for concurrent use.
type RateLimiter struct {
	limit    int
	interval time.Duration

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count int
	start time.Time
}

// NewRateLimiter creates a limiter allowing limit operations per interval
// for each distinct key.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
	}
}

// Allow reports whether one more operation for the key fits in the current
// window. Expired windows reset on access.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.interval {
		rl.windows[key] = &window{count: 1, start: now}
		rl.prune(now)
		return true
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// prune drops expired windows so idle keys do not accumulate.
// Caller must hold the mutex.
func (rl *RateLimiter) prune(now time.Time) {
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.interval {
			delete(rl.windows, key)
		}
	}
}

// Middleware rejects requests over the per-client limit with 429, keyed by
// client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
