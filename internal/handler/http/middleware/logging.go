package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// RequestLogger logs one line per request, including errors attached by handlers.
func RequestLogger(logger usecasecontract.IAppLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.
			WithField("method", c.Request.Method).
			WithField("path", c.Request.URL.Path).
			WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(start).String()).
			WithField("client_ip", c.ClientIP())

		if len(c.Errors) > 0 {
			entry.Errorf("request failed: %s", c.Errors.String())
			return
		}
		if c.Writer.Status() >= 500 {
			entry.Warnf("request completed with server error")
			return
		}
		entry.Debugf("request completed")
	}
}
