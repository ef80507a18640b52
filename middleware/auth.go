package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "session_token"

// AuthMiddleware authenticates the session_token cookie and stores user_id
// and user_email on the context. Missing, malformed, or expired credentials
// are an authentication failure (401), never an authorization one.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		userID, email, err := parseSessionToken(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_email", email)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the session when present but lets
// unauthenticated requests through untouched.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err == nil && token != "" {
			if userID, email, err := parseSessionToken(token, jwtSecret); err == nil {
				c.Set("user_id", userID)
				c.Set("user_email", email)
			}
		}
		c.Next()
	}
}

func parseSessionToken(token, jwtSecret string) (uint, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", errors.New("invalid session token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid session claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", errors.New("missing subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", errors.New("malformed subject claim")
	}

	email, _ := claims["email"].(string)
	return uint(userID), email, nil
}
