package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the gin context key holding the authenticated user's ID.
	ContextUserID = "userID"

	// CookieName is the name of the session cookie.
	CookieName = "session"

	loginPath = "/login"
)

// SessionVerifier resolves a cookie token to the user it authenticates.
type SessionVerifier interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// Cookies writes and clears the session cookie.
type Cookies struct {
	Secure bool
	MaxAge time.Duration
}

// Set stores token in the session cookie.
func (k Cookies) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(k.MaxAge.Seconds()), "/", "", k.Secure, true)
}

// Clear expires the session cookie.
func (k Cookies) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", k.Secure, true)
}

// SessionToken returns the session cookie value, or "" if absent.
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

// UserID returns the authenticated user's ID set by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// AuthRequired returns a Gin middleware that lets a request through only
// when its session cookie maps to a live session. Otherwise the cookie is
// cleared and the browser is redirected to the login page.
func AuthRequired(verifier SessionVerifier, cookies Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		userID, err := verifier.Authenticate(c.Request.Context(), token)
		if err != nil {
			slog.Info("session rejected", "error", err, "remote_addr", c.ClientIP())
			cookies.Clear(c)
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}
