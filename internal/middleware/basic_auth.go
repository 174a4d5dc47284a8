package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/SscSPs/payment_reconciler/internal/utils"
	"github.com/gin-gonic/gin"
)

// BasicAuth creates a Gin middleware handler that checks HTTP basic credentials
// against a user name and a bcrypt password hash.
func BasicAuth(user, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		u, p, ok := c.Request.BasicAuth()
		if !ok {
			logger.Warn("Basic authorization missing")
			c.Header("WWW-Authenticate", `Basic realm="notifications"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
		passOK := utils.CheckPasswordHash(p, passwordHash)
		if !userOK || !passOK {
			logger.Warn("Invalid basic authorization", "user", u)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		c.Next()
	}
}
