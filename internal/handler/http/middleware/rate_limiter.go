package middleware

import (
	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"

	"github.com/echomind/mindink/internal/handler/http/dto"
)

// RateLimiter limits requests per client IP.
func RateLimiter(lmt *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpErr := tollbooth.LimitByKeys(lmt, []string{c.ClientIP()}); httpErr != nil {
			c.AbortWithStatusJSON(httpErr.StatusCode, dto.ErrorResponse{Error: httpErr.Message})
			return
		}
		c.Next()
	}
}
