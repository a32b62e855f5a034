package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/presswork/internal/domain"
)

// RateLimiterConfig configures the rate limiter
type RateLimiterConfig struct {
	// RequestsPerSecond is the rate of token refill
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests allowed in a burst
	BurstSize int

	// CleanupInterval is how often idle buckets are dropped
	CleanupInterval time.Duration

	// KeyFunc extracts the rate limit key from the request.
	// Default: the caller's user id, else client IP.
	KeyFunc func(r *http.Request) string
}

// CartRateLimiterConfig limits add-to-cart and upload bursts per user.
func CartRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 2,
		BurstSize:         10,
		CleanupInterval:   time.Minute,
		KeyFunc:           UserOrClientIP,
	}
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is an in-memory token bucket limiter keyed per caller.
type RateLimiter struct {
	config  RateLimiterConfig
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	stop    chan struct{}
}

// NewRateLimiter creates a limiter and starts its cleanup goroutine. Call
// Stop to end it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = UserOrClientIP
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}

	rl := &RateLimiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow takes one token from key's bucket if available.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(rl.config.BurstSize), lastRefill: now}
		rl.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.config.RequestsPerSecond
	if b.tokens > float64(rl.config.BurstSize) {
		b.tokens = float64(rl.config.BurstSize)
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, b := range rl.buckets {
				if now.Sub(b.lastRefill) > rl.config.CleanupInterval {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// Middleware answers 429 with the JSON error envelope once a caller's
// bucket is empty.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.config.KeyFunc(r)) {
			w.Header().Set("Retry-After", "1")
			respondTooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserOrClientIP keys by user id when Identity has run, else by client IP.
func UserOrClientIP(r *http.Request) string {
	if userID, ok := domain.UserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	return "ip:" + GetClientIP(r)
}

// GetClientIP extracts the client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests).
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
