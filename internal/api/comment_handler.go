package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/service"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment creation. Comments are append-only; there
// are no edit or delete endpoints.
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// Create handles POST /articles/:slug/comments. Any failure, including a
// missing article, redirects home; success returns to the article's
// comment section.
func (h *CommentHandler) Create(c *gin.Context) {
	user := CurrentUserFrom(c)
	slug := c.Param("slug")

	_, err := h.services.Comment.Add(
		c.Request.Context(),
		user.ID,
		slug,
		c.PostForm("content"),
		c.PostForm("parentId"),
	)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) && !isValidationError(err) {
			h.log.Error().Err(err).Msg("Failed to create comment")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.Redirect(http.StatusFound, "/articles/"+slug+"#comments")
}
