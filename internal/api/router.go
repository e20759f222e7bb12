package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markdown-blog/internal/config"
	"github.com/markdown-blog/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the HTTP handler. The gin engine is
// wrapped with a method-override layer so HTML forms can issue PUT and
// DELETE via a _method field.
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(resolveCurrentUser(services.Auth, cfg, log))

	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)

	// Handlers
	authHandler := NewAuthHandler(services, cfg, log)
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)

	requireAuth := requireAuthMiddleware()

	// Landing page
	router.GET("/", home)

	// Auth
	auth := router.Group("/auth")
	{
		auth.GET("/signup", authHandler.ShowSignup)
		auth.POST("/signup", authHandler.Signup)
		auth.GET("/login", authHandler.ShowLogin)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// Articles
	articles := router.Group("/articles")
	{
		articles.GET("", requireAuth, articleHandler.List)
		articles.GET("/new", requireAuth, articleHandler.New)
		articles.GET("/edit/:id", requireAuth, articleHandler.Edit)
		articles.GET("/:slug", articleHandler.Show)
		articles.POST("", requireAuth, articleHandler.Create)
		articles.PUT("/:id", requireAuth, articleHandler.Update)
		articles.DELETE("/:id", requireAuth, articleHandler.Delete)

		// Comments
		articles.POST("/:slug/comments", requireAuth, commentHandler.Create)
	}

	// Profile
	router.GET("/profile", requireAuth, articleHandler.Profile)

	return methodOverride(router)
}

// home renders the landing page
func home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"CurrentUser": CurrentUserFrom(c),
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.Redirect(http.StatusFound, "/")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}
