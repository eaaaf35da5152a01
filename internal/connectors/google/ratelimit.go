package google

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration for userinfo calls.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimit stays well below the userinfo endpoint quota.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 10.0, BurstSize: 20}

// defaultBackoff applies when a 429 response carries no Retry-After.
const defaultBackoff = 60 * time.Second

// RateLimiter provides rate limiting for Google API requests.
// It uses a token bucket with a shared backoff window after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter. Non-positive fields fall back to DefaultRateLimit.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRateLimit.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultRateLimit.BurstSize
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// RecordRateLimitError records a rate limit error and sets a backoff period.
// Call this when receiving a 429 response from Google APIs.
// A non-positive retryAfterSeconds applies the default backoff.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	backoff := time.Duration(retryAfterSeconds) * time.Second
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	r.retryAt = time.Now().Add(backoff)
}

// Allow reports whether a request may be made now. It never blocks:
// callers fail the request instead of queueing behind a 429 backoff.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}

	return r.limiter.Allow()
}
