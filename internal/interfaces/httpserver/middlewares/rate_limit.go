package middlewares

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// simple token bucket per client IP.
type rateBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter holds the per-IP buckets. Zero or negative limits disable it.
type RateLimiter struct {
	mu             sync.Mutex
	buckets        map[string]*rateBucket
	limitPerMinute float64
	idleAfter      time.Duration
	now            func() time.Time
}

// NewRateLimiter creates a limiter allowing limitPerMinute requests per client IP.
func NewRateLimiter(limitPerMinute float64) *RateLimiter {
	return &RateLimiter{
		buckets:        make(map[string]*rateBucket),
		limitPerMinute: limitPerMinute,
		idleAfter:      10 * time.Minute,
		now:            time.Now,
	}
}

// Middleware returns the gin handler enforcing the limit.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limitPerMinute <= 0 {
			c.Next()
			return
		}

		if !l.allow(rateKey(c)) {
			metrics.RateLimitedTotal.WithLabelValues(metrics.NormalizeEndpoint(c.FullPath())).Inc()
			c.Header("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			responses.HandleNewError(c, platformerrors.ErrorTypeRateLimited, "Too many requests", "rate-limit-001")
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware limits requests per client IP.
func RateLimitMiddleware(limitPerMinute float64) gin.HandlerFunc {
	return NewRateLimiter(limitPerMinute).Middleware()
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: l.limitPerMinute, lastRefill: now}
		l.buckets[key] = bucket
		l.evictIdle(now)
	}

	elapsed := now.Sub(bucket.lastRefill).Seconds()
	bucket.tokens = min(l.limitPerMinute, bucket.tokens+elapsed*l.limitPerMinute/60.0)
	bucket.lastRefill = now

	if bucket.tokens < 1 {
		return false
	}
	bucket.tokens--
	return true
}

// evictIdle drops buckets that have been full for a while. Called with mu held.
func (l *RateLimiter) evictIdle(now time.Time) {
	for key, bucket := range l.buckets {
		if now.Sub(bucket.lastRefill) > l.idleAfter {
			delete(l.buckets, key)
		}
	}
}

func (l *RateLimiter) retryAfterSeconds() int {
	seconds := int(60.0/l.limitPerMinute + 0.999)
	if seconds < 1 {
		return 1
	}
	return seconds
}

func rateKey(c *gin.Context) string {
	if ip := clientIP(c.ClientIP()); ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}

// Normalize IPv6-mapped IPv4 etc.
func clientIP(raw string) string {
	if raw == "" {
		return ""
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	return raw
}
