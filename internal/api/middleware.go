package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markdown-blog/internal/config"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/service"
	"github.com/rs/zerolog"
)

// currentUserKey is the gin context key under which the resolved user, if
// any, is stored for the duration of a request. Authorization decisions
// below the handler layer never read this; services take the user ID as an
// explicit parameter.
const currentUserKey = "currentUser"

// resolveCurrentUser resolves the session cookie to a user record on every
// request. Resolution is read-only and failure-tolerant: a store error is
// logged and the request proceeds anonymously.
func resolveCurrentUser(auth service.AuthService, cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Session.CookieName)
		if err != nil {
			c.Next()
			return
		}

		user, err := auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve current user")
			c.Next()
			return
		}
		if user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// requireAuthMiddleware refuses unauthenticated access to protected
// routes. The refusal is a silent redirect to the login page, never a 401.
func requireAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserFrom(c) == nil {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserFrom returns the user resolved for this request, or nil
func CurrentUserFrom(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// methodOverride rewrites POST requests carrying a _method form field into
// PUT or DELETE before routing, mirroring what HTML forms cannot express
// natively. It must wrap the engine because gin picks the route tree by
// method before any middleware runs.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost &&
			strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err == nil {
				switch strings.ToUpper(r.PostForm.Get("_method")) {
				case http.MethodPut:
					r.Method = http.MethodPut
				case http.MethodDelete:
					r.Method = http.MethodDelete
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
