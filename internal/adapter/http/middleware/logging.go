package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authapi/pkg/config"
)

// LoggingMiddleware writes one access log line per request. Bodies and
// headers are never logged.
func LoggingMiddleware(logger *config.LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if requestID, ok := GetCurrent(c).GetString("request_id"); ok {
			fields = append(fields, zap.String("request_id", requestID))
		}

		logger.InfoWithTrace(c.Request.Context(), "HTTP Request", fields...)
	}
}
