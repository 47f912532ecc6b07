package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"powergest/utils"
)

const RoleKey = "role"

// AuthMiddleware accepts the token from the Authorization header or the
// token cookie and requires the given role.
func AuthMiddleware(tokens *utils.TokenManager, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token not provided"})
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
				return
			}
			token = parts[1]
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}
