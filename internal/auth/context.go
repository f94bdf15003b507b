package auth

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user's ID, or "" when the request did
// not pass AuthRequired.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

// GetUserEmail returns the authenticated user's email, or "".
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmailKey)
}
