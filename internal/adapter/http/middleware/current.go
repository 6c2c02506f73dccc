package middleware

import (
	ct "authapi/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		requestID := c.GetHeader(RequestIDHeader)

		if requestID == "" {
			requestID = uuid.New().String()
		}

		current.Set("request_id", requestID)
		current.Set("user_agent", c.Request.UserAgent())
		current.Set("ip_address", c.ClientIP())
		current.Set("method", c.Request.Method)
		current.Set("path", c.Request.URL.Path)

		ctx := ct.WithCurrent(c.Request.Context(), current)
		c.Request = c.Request.WithContext(ctx)

		c.Set("current", current)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get("current"); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	return ct.GetCurrent(c.Request.Context())
}
