package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Service names used for rate limiting
const (
	ServiceSearch     = "pubmed"
	ServiceCompletion = "completion"
)

// Limiter implements per-service rate limiting. Each named service (the
// literature search API, the completion API) gets its own token bucket so
// one busy service cannot starve calls to another.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a default per-service rate
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 3
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the named service's rate limit clears
func (l *Limiter) Wait(ctx context.Context, service string) error {
	return l.getLimiter(service).Wait(ctx)
}

// Allow reports whether a request is allowed without waiting
func (l *Limiter) Allow(service string) bool {
	return l.getLimiter(service).Allow()
}

// SetServiceRate sets a custom rate limit for a specific service
func (l *Limiter) SetServiceRate(service string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[service] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) getLimiter(service string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[service]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[service]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[service] = limiter

	return limiter
}
