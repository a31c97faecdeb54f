package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumenlms/lumen-backend/internal/model"
	"github.com/lumenlms/lumen-backend/internal/response"
	"github.com/lumenlms/lumen-backend/internal/service"
)

const (
	// ContextKeySession is the Gin context key for the resolved session.
	ContextKeySession = "session"
)

// RequireAuth validates the bearer token and resolves the session it refers
// to. A token whose JTI no longer matches the account's session slot is
// rejected — logout invalidates tokens immediately.
func RequireAuth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractClaims(c, tokens)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		sess, err := tokens.ResolveSession(c.Request.Context(), claims)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// RequireAdmin is RequireAuth plus an admin-role gate.
func RequireAdmin(tokens *service.TokenService, identity *service.IdentityService) gin.HandlerFunc {
	auth := RequireAuth(tokens)
	return func(c *gin.Context) {
		auth(c)
		if c.IsAborted() {
			return
		}
		if err := identity.RequireAdmin(GetSession(c)); err != nil {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireWSAuth validates a token from the query param ?token=... and
// resolves the session. Used for WebSocket upgrade requests, which cannot
// carry an Authorization header from browsers.
func RequireWSAuth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		sess, err := tokens.ResolveSession(c.Request.Context(), claims)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// GetSession retrieves the resolved session from the Gin context.
func GetSession(c *gin.Context) *model.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := val.(*model.Session)
	if !ok {
		return nil
	}
	return sess
}

func extractClaims(c *gin.Context, tokens *service.TokenService) (*service.Claims, error) {
	header := c.GetHeader("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" || tokenStr == header {
		return nil, service.ErrInvalidCredentials
	}
	return tokens.ValidateToken(tokenStr)
}
