package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	DefaultIPRequestsPerMinute = 120
	DefaultIPWindowDuration    = time.Minute
)

type ipBucket struct {
	count     int
	resetTime time.Time
}

// IPLimiter allows a fixed number of requests per client IP per window.
type IPLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*ipBucket
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewIPLimiter creates a limiter. A limit <= 0 disables limiting.
func NewIPLimiter(limit int, window time.Duration) *IPLimiter {
	if window <= 0 {
		window = DefaultIPWindowDuration
	}
	return &IPLimiter{
		buckets: make(map[string]*ipBucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Middleware rejects requests over the limit with 429.
func (l *IPLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
			}
			return next(c)
		}
	}
}

// Allow records a request from ip and reports whether it is within the limit.
func (l *IPLimiter) Allow(ip string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.window {
		l.evictExpired(now)
	}

	bucket, exists := l.buckets[ip]
	if !exists || now.After(bucket.resetTime) {
		l.buckets[ip] = &ipBucket{count: 1, resetTime: now.Add(l.window)}
		return true
	}

	if bucket.count >= l.limit {
		return false
	}
	bucket.count++
	return true
}

// Cleanup drops every expired bucket.
func (l *IPLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evictExpired(l.now())
}

// evictExpired runs at most once per window from Allow. Callers hold l.mu.
func (l *IPLimiter) evictExpired(now time.Time) {
	l.lastSweep = now
	for ip, bucket := range l.buckets {
		if now.After(bucket.resetTime) {
			delete(l.buckets, ip)
		}
	}
}
