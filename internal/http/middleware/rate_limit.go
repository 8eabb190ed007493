package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/domain"
)

// RateLimitMessage is returned verbatim whenever an OTP-issuing endpoint is
// throttled.
const RateLimitMessage = "Too many OTP requests from this IP, please try again after 5 minutes"

// RateLimitMW gates OTP-issuing endpoints per client address before the auth
// service runs. Counters are independent per route.
type RateLimitMW struct {
	limiter domain.RateLimiter
}

// NewRateLimitMW creates new rate limit middleware wrapper
func NewRateLimitMW(limiter domain.RateLimiter) *RateLimitMW {
	return &RateLimitMW{limiter: limiter}
}

// Limit returns middleware counting hits under the given route name.
func (mw *RateLimitMW) Limit(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := route + ":" + c.ClientIP()

		allowed, err := mw.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open: a broken limiter backend should not lock users out.
			log.Printf("rate limit check failed for %s: %v", key, err)
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"msg": RateLimitMessage})
			c.Abort()
			return
		}

		c.Next()
	}
}
