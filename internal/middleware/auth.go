package middleware

import (
	"net/http"
	"strings"

	"campusforum/internal/pkg"
	"campusforum/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
)

// AuthMiddleware requires a valid bearer token whose access token is still
// the one recorded in Redis, then injects user_id and role.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, token, ok := resolveToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}

		sessions := &redis.SessionRepository{}
		current, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || current != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "session expired or signed in elsewhere"})
			return
		}
		// sliding expiry after a successful check
		if err := sessions.Extend(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware injects the user when a valid token is supplied
// and stays silent otherwise; anonymous reads go through.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _, ok := resolveToken(c); ok {
			c.Set(ContextUserIDKey, claims.UserID)
			c.Set(ContextRoleKey, claims.Role)
		}
		c.Next()
	}
}

func resolveToken(c *gin.Context) (*pkg.Claims, string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "", false
	}
	claims, err := pkg.ParseAccess(parts[1])
	if err != nil {
		return nil, "", false
	}
	return claims, parts[1], true
}
