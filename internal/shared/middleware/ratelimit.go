package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"furrymatch-backend/internal/shared/response"
)

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	r        rate.Limit
	b        int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{limiters: make(map[string]*visitor), r: r, b: b}
}

func (i *ipRateLimiter) get(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.limiters[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// prune drops visitors idle for longer than ttl.
func (i *ipRateLimiter) prune(ttl time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	for ip, v := range i.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(i.limiters, ip)
		}
	}
}

// RateLimit answers 429 once a client exceeds rps requests per second
// (with the given burst). Requires ClientIP earlier in the chain.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiter := newIPRateLimiter(rate.Limit(rps), burst)
	var calls uint64
	var mu sync.Mutex

	return func(c *gin.Context) {
		ip := c.GetString(ContextClientIP)
		if ip == "" {
			ip = c.ClientIP()
		}

		mu.Lock()
		calls++
		sweep := calls%1024 == 0
		mu.Unlock()
		if sweep {
			limiter.prune(10 * time.Minute)
		}

		if !limiter.get(ip).Allow() {
			c.Header("Retry-After", "1")
			response.TooManyRequests(c, "rate limit exceeded, try again later")
			return
		}

		c.Next()
	}
}
