package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"salle-backend/utils"
)

// RateLimit throttles a route per client IP with a token bucket. The public
// booking endpoint uses it so one client cannot hammer the availability
// check-and-insert path.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = 5
	}
	var limiters sync.Map

	getLimiter := func(key string) *rate.Limiter {
		if v, ok := limiters.Load(key); ok {
			return v.(*rate.Limiter)
		}
		lim := rate.NewLimiter(rate.Limit(rps), burst)
		actual, _ := limiters.LoadOrStore(key, lim)
		return actual.(*rate.Limiter)
	}

	return func(c *gin.Context) {
		if !getLimiter(c.ClientIP()).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
