package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swap-service/internal/auth"
)

const userUIDKey = "userUID"

// AuthMiddleware validates the Authorization header and stores the resolved
// uid on the request context.
func AuthMiddleware(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		uid, err := verifier.VerifyToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userUIDKey, uid)
		c.Next()
	}
}

// AdminOnly rejects callers whose uid is not the configured admin uid. It must
// run after AuthMiddleware.
func AdminOnly(adminUID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminUID == "" || c.GetString(userUIDKey) != adminUID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// UserUID returns the uid set by AuthMiddleware.
func UserUID(c *gin.Context) string {
	return c.GetString(userUIDKey)
}
