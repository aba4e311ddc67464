package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qa-service/internal/services"
	"qa-service/pkg/response"
)

type RateLimitMiddleware struct {
	redisService *services.RedisService
}

func NewRateLimitMiddleware(redisService *services.RedisService) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redisService: redisService,
	}
}

// RateLimit limits authenticated traffic per user and endpoint. Must run
// after RequireAuth.
func (rm *RateLimitMiddleware) RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserIDKey)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		key := fmt.Sprintf("rate_limit:%v:%s", userID, c.Request.URL.Path)
		rm.check(c, key, requests, window)
	}
}

// RateLimitIP limits public traffic per client IP and endpoint.
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.Request.URL.Path)
		rm.check(c, key, requests, window)
	}
}

// WebSocketRateLimit limits upgrade attempts per IP. Socket auth happens
// in-band, so the IP is all we have at upgrade time.
func (rm *RateLimitMiddleware) WebSocketRateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:websocket:%s", c.ClientIP())
		rm.check(c, key, requests, window)
	}
}

func (rm *RateLimitMiddleware) check(c *gin.Context, key string, requests int, window time.Duration) {
	allowed, err := rm.redisService.CheckRateLimit(c.Request.Context(), key, requests, window)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Rate limit check failed")
		return
	}
	if !allowed {
		response.Error(c, http.StatusTooManyRequests,
			fmt.Sprintf("Too many requests. Limit: %d per %v", requests, window))
		return
	}
	c.Next()
}
