package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/service"
	"github.com/rs/zerolog"
)

// ArticleHandler handles the article lifecycle endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /articles: all articles, newest first
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.services.Article.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list articles")
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "articles_index.html", gin.H{
		"Articles":    articles,
		"CurrentUser": CurrentUserFrom(c),
	})
}

// New handles GET /articles/new: blank article form
func (h *ArticleHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, "articles_new.html", gin.H{
		"Article":     &models.Article{},
		"CurrentUser": CurrentUserFrom(c),
	})
}

// Edit handles GET /articles/edit/:id. A bad or missing ID redirects home;
// an ownership mismatch redirects to the article list.
func (h *ArticleHandler) Edit(c *gin.Context) {
	user := CurrentUserFrom(c)

	article, err := h.services.Article.GetForEdit(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, h.failureTarget(err, "Failed to load article for edit"))
		return
	}

	c.HTML(http.StatusOK, "articles_edit.html", gin.H{
		"Article":     article,
		"CurrentUser": user,
	})
}

// Show handles GET /articles/:slug: the public article page with its
// comment thread. Missing slug redirects home.
func (h *ArticleHandler) Show(c *gin.Context) {
	article, err := h.services.Article.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.log.Error().Err(err).Msg("Failed to load article")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	comments, err := h.services.Comment.ListForArticle(c.Request.Context(), article.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load comments")
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "articles_show.html", gin.H{
		"Article":     article,
		"Body":        renderMarkdown(article.Body),
		"Comments":    comments,
		"CurrentUser": CurrentUserFrom(c),
	})
}

// Create handles POST /articles. A failed save re-renders the form with
// the submitted values preserved.
func (h *ArticleHandler) Create(c *gin.Context) {
	user := CurrentUserFrom(c)
	input := articleInputFromForm(c)

	article, err := h.services.Article.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		if !isValidationError(err) && !errors.Is(err, models.ErrDuplicateSlug) {
			h.log.Error().Err(err).Msg("Failed to create article")
		}
		c.HTML(http.StatusBadRequest, "articles_new.html", gin.H{
			"Article":     article,
			"Errors":      validationMessages(err),
			"CurrentUser": user,
		})
		return
	}

	c.Redirect(http.StatusFound, "/articles/"+article.Slug)
}

// Update handles PUT /articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	user := CurrentUserFrom(c)
	input := articleInputFromForm(c)

	article, err := h.services.Article.Update(c.Request.Context(), user.ID, c.Param("id"), input)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/articles/"+article.Slug)
	case isValidationError(err), errors.Is(err, models.ErrDuplicateSlug):
		c.HTML(http.StatusBadRequest, "articles_edit.html", gin.H{
			"Article":     article,
			"Errors":      validationMessages(err),
			"CurrentUser": user,
		})
	default:
		c.Redirect(http.StatusFound, h.failureTarget(err, "Failed to update article"))
	}
}

// Delete handles DELETE /articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	user := CurrentUserFrom(c)

	if err := h.services.Article.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		c.Redirect(http.StatusFound, h.failureTarget(err, "Failed to delete article"))
		return
	}

	c.Redirect(http.StatusFound, "/articles")
}

// Profile handles GET /profile: the current user's own articles
func (h *ArticleHandler) Profile(c *gin.Context) {
	user := CurrentUserFrom(c)

	articles, err := h.services.Article.ListByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list own articles")
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Articles":    articles,
		"CurrentUser": user,
	})
}

// failureTarget maps a failed edit-flow outcome to its safe redirect:
// ownership mismatch goes to the article list, everything else home.
// Unexpected errors are logged, never surfaced.
func (h *ArticleHandler) failureTarget(err error, msg string) string {
	if errors.Is(err, models.ErrForbidden) {
		return "/articles"
	}
	if !errors.Is(err, models.ErrNotFound) {
		h.log.Error().Err(err).Msg(msg)
	}
	return "/"
}

func articleInputFromForm(c *gin.Context) service.ArticleInput {
	return service.ArticleInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Body:        c.PostForm("markdown"),
	}
}
