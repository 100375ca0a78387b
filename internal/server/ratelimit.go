package server

import (
	"net/http"
	"sync"
	"time"
)

// tokenBucket is a single client's rate limiter.
type tokenBucket struct {
	tokens     float64
	lastUpdate time.Time
}

// PerClientRateLimiter applies a token-bucket limit per client IP.
// Idle buckets are dropped periodically.
type PerClientRateLimiter struct {
	rate        float64
	burst       int
	clients     map[string]*tokenBucket
	lastCleanup time.Time
	mu          sync.Mutex
}

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterMaxIdle         = 10 * time.Minute
)

// NewPerClientRateLimiter builds a limiter allowing rate requests per
// second with the given burst per client.
func NewPerClientRateLimiter(rate float64, burst int) *PerClientRateLimiter {
	return &PerClientRateLimiter{
		rate:        rate,
		burst:       burst,
		clients:     make(map[string]*tokenBucket),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether a request from the client may proceed.
func (l *PerClientRateLimiter) Allow(clientKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastCleanup) > limiterCleanupInterval {
		for key, b := range l.clients {
			if now.Sub(b.lastUpdate) > limiterMaxIdle {
				delete(l.clients, key)
			}
		}
		l.lastCleanup = now
	}

	b, ok := l.clients[clientKey]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst), lastUpdate: now}
		l.clients[clientKey] = b
	}

	b.tokens += now.Sub(b.lastUpdate).Seconds() * l.rate
	if b.tokens > float64(l.burst) {
		b.tokens = float64(l.burst)
	}
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// RateLimitMiddleware rejects over-limit clients with 429. Clients
// are keyed by the RealIP-resolved remote address.
func RateLimitMiddleware(limiter *PerClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.RemoteAddr) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
