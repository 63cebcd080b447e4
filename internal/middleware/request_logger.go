package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// RequestLogger logs every HTTP request at debug level and failed ones at warn
func RequestLogger(log hclog.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		// Skip logging for health checks
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"duration", time.Since(start).String(),
			"size", c.Writer.Size(),
			"ip", c.ClientIP(),
		}
		if v, ok := c.Get(ViewerKey); ok {
			args = append(args, "role", v)
		}

		if status >= 500 {
			log.Warn("HTTP request failed", args...)
			return
		}
		log.Debug("HTTP request", args...)
	}
}
