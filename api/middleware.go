package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/makerfolio/makerfolio-go/config"
)

// clientLimiters tracks one token bucket per client IP
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newClientLimiters() *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
	}
}

func (cl *clientLimiters) get(clientIP string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	limiter, exists := cl.limiters[clientIP]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(config.IngestRatePerSecond), config.IngestBurst)
		cl.limiters[clientIP] = limiter
	}
	return limiter
}

// IngestRateLimiter caps event-recording throughput per client so a stuck
// client cannot flood the event log
func IngestRateLimiter() gin.HandlerFunc {
	limiters := newClientLimiters()

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
