package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// WebSocket upgrade requests carry the token as a query parameter
		// because browsers cannot set an Authorization header on them.
		if c.GetHeader("Upgrade") == "websocket" {
			token := c.Query("token")
			if token == "" {
				// Abort without writing a response; the websocket handler
				// owns the error path.
				c.Abort()
				return
			}
			if !validateToken(c, token, secret) {
				c.Abort()
				return
			}
			c.Next()
			return
		}

		var tokenString string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		if !validateToken(c, tokenString, secret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// validateToken parses the JWT and stores its claims on the context.
func validateToken(c *gin.Context, tokenString, secret string) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	c.Set("user_id", uint(userID))
	c.Set("email", email)
	c.Set("role", role)
	return true
}

// RequireRole gates a route group to the given roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
