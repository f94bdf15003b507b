package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys shared by AuthRequired and the accessors in context.go.
const (
	ctxUserIDKey    = "authUserID"
	ctxUserEmailKey = "authUserEmail"
)

// AuthRequired rejects requests without a valid bearer access token and
// stashes the token's identity in the gin context for downstream handlers.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxUserEmailKey, claims.Email)

		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme match is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
