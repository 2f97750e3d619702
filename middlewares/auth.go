package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-admin/utils"
)

// SessionCookie is the fixed key the session token is stored under.
const SessionCookie = "adminUser"

const claimsKey = "session"

// SessionChecker reports whether a session id still has a live workspace.
type SessionChecker interface {
	Active(sessionID string) bool
}

// AuthMiddleware accepts a bearer token or the session cookie. A missing or
// stale session answers 401 with a hint to go back to the login view.
func AuthMiddleware(secret string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			unauthorized(c, "Authentication required")
			return
		}

		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			unauthorized(c, "Invalid or expired session")
			return
		}
		if !sessions.Active(claims.SessionID) {
			unauthorized(c, "Session has ended")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Session returns the claims stored by AuthMiddleware.
func Session(c *gin.Context) (*utils.SessionClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.SessionClaims)
	return claims, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "redirect": "/login"})
}
