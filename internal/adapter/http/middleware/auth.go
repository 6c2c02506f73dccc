package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"authapi/internal/adapter/http/helper"
	"authapi/internal/core/domain"
	"authapi/internal/core/port"
	"authapi/internal/core/telemetry"
)

const (
	UserIDKey = "x-user-id"
	ClaimsKey = "claims"
)

// GinJwtMiddleware admits requests carrying a valid "Bearer <token>"
// Authorization header and exposes the token claims on the gin context.
func GinJwtMiddleware(validator port.TokenValidator, metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			recordValidation(c, metrics, "missing")
			helper.SendUnauthorizedError(c, "Unauthorized request")
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(bearer, "Bearer ")

		if !found {
			recordValidation(c, metrics, "malformed")
			helper.SendUnauthorizedError(c, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := validator.Validate(c.Request.Context(), strings.TrimSpace(token))

		if err != nil {
			recordValidation(c, metrics, "invalid")
			helper.SendUnauthorizedError(c, "Unauthorized request")
			c.Abort()
			return
		}

		recordValidation(c, metrics, "valid")

		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)

		GetCurrent(c).Set("user_id", claims.UserID)

		c.Next()
	}
}

// GetClaims returns the claims set by GinJwtMiddleware.
func GetClaims(c *gin.Context) (domain.Claims, bool) {
	value, ok := c.Get(ClaimsKey)

	if !ok {
		return domain.Claims{}, false
	}

	claims, ok := value.(domain.Claims)

	return claims, ok
}

func recordValidation(c *gin.Context, metrics *telemetry.AppMetrics, outcome string) {
	if metrics != nil {
		metrics.RecordTokenValidation(c.Request.Context(), outcome)
	}
}
