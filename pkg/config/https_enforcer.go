package config

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPSEnforcer struct {
	enabled bool
	logger  *zap.Logger
}

func NewHTTPSEnforcer(enabled bool, logger *zap.Logger) *HTTPSEnforcer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPSEnforcer{
		enabled: enabled,
		logger:  logger,
	}
}

// HTTPSMiddleware redirects plain HTTP requests, trusting X-Forwarded-Proto
// from a terminating proxy. Local hosts are never redirected.
func (he *HTTPSEnforcer) HTTPSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !he.enabled || c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Next()
			return
		}

		host := c.Request.Host

		if strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1") {
			c.Next()
			return
		}

		httpsURL := "https://" + host + c.Request.RequestURI

		he.logger.Info("Redirecting to HTTPS",
			zap.String("path", c.Request.URL.Path),
			zap.String("https_url", httpsURL))

		c.Redirect(http.StatusMovedPermanently, httpsURL)
		c.Abort()
	}
}

func (he *HTTPSEnforcer) IsEnabled() bool {
	return he.enabled
}
