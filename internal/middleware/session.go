package middleware

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
)

const sessionCookieName = "user-token"

type SessionMiddleware struct {
	log *logger.Logger
}

func NewSessionMiddleware(log *logger.Logger) *SessionMiddleware {
	middlewareLogger := log.With("Middleware", "SessionMiddleware")
	return &SessionMiddleware{log: middlewareLogger}
}

// sessionUserID decodes the opaque cookie value back to the user id. The
// token is base64 of "<id>:<unix ms>"; anything else is treated as absent.
func sessionUserID(token string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 2 || parts[0] == "" {
		return "", false
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return "", false
	}
	return parts[0], true
}

// RequireSession guards API routes. Missing or malformed cookie means 401
// with the standard envelope.
func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}
		userID, ok := sessionUserID(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid session"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// authPages are the routes a signed-in user is bounced away from.
var authPages = map[string]bool{
	"/login":           true,
	"/signup":          true,
	"/forgot-password": true,
	"/reset-password":  true,
}

// PageGate routes browser page requests by session presence: protected
// console pages redirect to login (with the original path preserved), auth
// pages redirect signed-in users to the console, and the root splits both
// ways.
func (sm *SessionMiddleware) PageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		token, _ := c.Cookie(sessionCookieName)
		_, authed := sessionUserID(token)

		switch {
		case strings.HasPrefix(path, "/console") && !authed:
			c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(path))
			c.Abort()
		case authPages[path] && authed:
			c.Redirect(http.StatusFound, "/console")
			c.Abort()
		case path == "/":
			if authed {
				c.Redirect(http.StatusFound, "/console")
			} else {
				c.Redirect(http.StatusFound, "/login")
			}
			c.Abort()
		default:
			c.Next()
		}
	}
}
