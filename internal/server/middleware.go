package server

import (
	"context"
	"net/http"
	"time"

	"auction-house/internal/models"
	"auction-house/services/web/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// SessionResolver is the slice of the auth service the middleware needs
type SessionResolver interface {
	UserFromSession(ctx context.Context, token string) (models.User, error)
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// SessionMiddleware resolves the session cookie to its user and stores it in
// the request context. Requests without a valid session pass through
// anonymously.
func SessionMiddleware(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := auth.UserFromSession(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(helpers.ContextUserKey, user)
		c.Next()
	}
}

// RequireAuth redirects anonymous requests to the login page
func RequireAuth(c *gin.Context) {
	if _, loggedIn := helpers.CurrentUser(c); !loggedIn {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}
