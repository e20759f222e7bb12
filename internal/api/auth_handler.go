package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markdown-blog/internal/config"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// ShowSignup handles GET /auth/signup
func (h *AuthHandler) ShowSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{
		"Error": nil,
		"Email": "",
	})
}

// Signup handles POST /auth/signup. Failures re-render the form with a
// generic message, preserving the submitted email.
func (h *AuthHandler) Signup(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, token, err := h.services.Auth.Signup(c.Request.Context(), email, password)
	if err != nil {
		msg := "Could not create account"
		if errors.Is(err, models.ErrDuplicateEmail) {
			msg = "Email already in use"
		} else if !isValidationError(err) {
			h.log.Error().Err(err).Msg("Signup failed")
		}
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Error": msg,
			"Email": email,
		})
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

// ShowLogin handles GET /auth/login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error": nil,
		"Email": "",
	})
}

// Login handles POST /auth/login. Unknown email and wrong password produce
// an identical response.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, token, err := h.services.Auth.Login(c.Request.Context(), email, password)
	if err != nil {
		msg := "Invalid credentials"
		if !errors.Is(err, models.ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("Login failed")
			msg = "Login failed"
		}
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": msg,
			"Email": email,
		})
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

// Logout handles POST /auth/logout; idempotent
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.Session.CookieName); err == nil {
		if err := h.services.Auth.Logout(c.Request.Context(), token); err != nil {
			h.log.Error().Err(err).Msg("Failed to destroy session")
		}
	}

	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(
		h.cfg.Session.CookieName,
		token,
		int(h.cfg.Session.TTL.Seconds()),
		"/",
		"",
		h.cfg.Session.Secure,
		true, // http-only
	)
}
