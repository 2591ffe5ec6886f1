package middleware

import (
	"errors"
	"net/http"
	"strings"

	"codelens/internal/microservices/http-api/service"
	"codelens/internal/shared"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the access token for browser clients.
const SessionCookie = "codelens_session"

const sessionKey = "session"

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// The token comes from the Authorization header or the session cookie.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		session, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalAuth attaches a session when a valid token is present and lets
// the request through anonymously otherwise. A bearer header that does not
// validate is rejected with 401 so API clients can refresh; a stale session
// cookie is ignored.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if tokenString != "" {
			session, err := authService.ValidateToken(c.Request.Context(), tokenString)
			switch {
			case err == nil:
				setSession(c, session)
			case c.GetHeader("Authorization") != "":
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
		}
		c.Next()
	}
}

// SessionFrom returns the session set by the auth middleware, or nil.
func SessionFrom(c *gin.Context) *shared.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*shared.Session)
	return session
}

func setSession(c *gin.Context, session *shared.Session) {
	c.Set(sessionKey, session)
	c.Set("userID", session.UserID)
}

var errHeaderFormat = errors.New("invalid authorization header format")

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		// format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errHeaderFormat
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie, nil
	}
	return "", nil
}
