package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"leadflow/internal/common/errors"
)

const (
	bucketIdleThreshold = 1 * time.Hour
	cleanupInterval     = 30 * time.Minute
)

type clientBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket. Buckets hold up to burst tokens
// and refill continuously at the configured per-minute rate.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    float64
	perSecond   float64
	clients     map[string]*clientBucket
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter returns a limiter allowing requestsPerMinute sustained and
// burst at once. A non-positive rate disables limiting.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = requestsPerMinute
	}
	rl := &RateLimiter{
		capacity:    float64(burst),
		perSecond:   float64(requestsPerMinute) / 60,
		clients:     make(map[string]*clientBucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	if rl.Enabled() {
		go rl.cleanupLoop()
	}
	return rl
}

func (r *RateLimiter) Enabled() bool {
	return r.perSecond > 0 && r.capacity > 0
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for ip, bucket := range r.clients {
		if now.Sub(bucket.lastRefill) > bucketIdleThreshold {
			delete(r.clients, ip)
		}
	}
}

func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow takes one token from the client's bucket.
func (r *RateLimiter) Allow(client string) bool {
	if !r.Enabled() {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, exists := r.clients[client]
	if !exists {
		r.clients[client] = &clientBucket{
			tokens:     r.capacity - 1,
			lastRefill: now,
		}
		return true
	}

	if elapsed := now.Sub(bucket.lastRefill); elapsed > 0 {
		bucket.tokens += elapsed.Seconds() * r.perSecond
		if bucket.tokens > r.capacity {
			bucket.tokens = r.capacity
		}
		bucket.lastRefill = now
	}

	if bucket.tokens < 1 {
		return false
	}
	bucket.tokens--
	return true
}

// rateLimit rejects clients that have drained their bucket.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			s.writeError(w, r, errors.NewRateLimitedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
