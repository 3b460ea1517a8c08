package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by ValidateToken.
const (
	UserIDKey  = "user_id"
	StoreIDKey = "store_id"
)

// ValidateToken accepts a vendor JWT from the Authorization header, with or
// without the Bearer prefix. Websocket clients cannot set headers, so the
// token query parameter is accepted as a fallback.
func ValidateToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid token signing method")
			}
			if secret == "" {
				return nil, errors.New("token secret not configured")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		storeID, _ := claims["store_id"].(string)
		if storeID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token is not bound to a store"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims["user_id"])
		c.Set(StoreIDKey, storeID)
		c.Next()
	}
}
