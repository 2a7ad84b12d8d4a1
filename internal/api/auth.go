package api

import (
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/gin-gonic/gin"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// RequireAuth rejects requests that did not arrive with a valid Clerk
// session. The session claims are resolved by the clerkhttp middleware
// wrapping the router; the Clerk subject doubles as the owner id on
// every reading.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := clerk.SessionClaimsFromContext(c.Request.Context())
		if !ok || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    ErrorCodeUnauthorized,
					"message": "missing or invalid authentication",
				},
			})
			return
		}

		c.Set(string(userIDKey), claims.Subject)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(string(userIDKey))
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok
}
