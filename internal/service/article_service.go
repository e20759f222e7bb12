package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/repository"
	"github.com/markdown-blog/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleInput carries article form fields. Body is raw markdown; it is
// rendered at display time, never stored as HTML.
type ArticleInput struct {
	Title       string
	Description string
	Body        string
}

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles repository.ArticleRepository
	log      zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(articles repository.ArticleRepository, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		log:      log.With().Str("service", "article").Logger(),
	}
}

// Create builds an article owned by authorID and persists it. On
// validation or save failure the in-memory article is returned alongside
// the error so the caller can redisplay the form with the entered values.
func (s *articleService) Create(ctx context.Context, authorID string, input ArticleInput) (*models.Article, error) {
	now := time.Now().UTC()
	article := &models.Article{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Body:        input.Body,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	article.Slug = slug.Make(article.Title)

	if errs := validation.ValidateArticleInput(article.Title, article.Description, article.Body); len(errs) > 0 {
		return article, errs
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return article, err
	}

	s.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("Article created")
	return article, nil
}

// GetBySlug retrieves an article by its public slug.
// Returns models.ErrNotFound when absent.
func (s *articleService) GetBySlug(ctx context.Context, slugStr string) (*models.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.ErrNotFound
	}
	return article, nil
}

// GetForEdit loads an article by ID for an edit/update/delete flow and
// enforces ownership. Malformed IDs are rejected before any store query.
// An article without an owner is editable by any authenticated user.
func (s *articleService) GetForEdit(ctx context.Context, currentUserID, id string) (*models.Article, error) {
	article, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Owned() && !article.OwnedBy(currentUserID) {
		return nil, models.ErrForbidden
	}
	return article, nil
}

// Update overwrites the article's title, description and body, regenerating
// the slug from the new title. If the article has no owner yet, ownership is
// back-filled to the updating user. On validation or save failure the
// attempted values are returned alongside the error for form redisplay.
func (s *articleService) Update(ctx context.Context, currentUserID, id string, input ArticleInput) (*models.Article, error) {
	article, err := s.GetForEdit(ctx, currentUserID, id)
	if err != nil {
		return nil, err
	}

	article.Title = strings.TrimSpace(input.Title)
	article.Description = input.Description
	article.Body = input.Body
	article.Slug = slug.Make(article.Title)
	if !article.Owned() {
		article.AuthorID = currentUserID
	}

	if errs := validation.ValidateArticleInput(article.Title, article.Description, article.Body); len(errs) > 0 {
		return article, errs
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return article, err
	}

	s.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("Article updated")
	return article, nil
}

// Delete removes an article after the same existence and ownership checks
// as Update. Dependent comments go with it via the store's cascade.
func (s *articleService) Delete(ctx context.Context, currentUserID, id string) error {
	article, err := s.GetForEdit(ctx, currentUserID, id)
	if err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, article.ID); err != nil {
		return err
	}

	s.log.Info().Str("article_id", article.ID).Msg("Article deleted")
	return nil
}

// List retrieves all articles, newest first
func (s *articleService) List(ctx context.Context) ([]*models.Article, error) {
	return s.articles.List(ctx)
}

// ListByAuthor retrieves one author's articles, newest first
func (s *articleService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	return s.articles.ListByAuthor(ctx, authorID)
}

// getByID validates the identifier and loads the article. A malformed ID
// must never reach the store layer as a query, so it short-circuits to
// models.ErrNotFound here.
func (s *articleService) getByID(ctx context.Context, id string) (*models.Article, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.ErrNotFound
	}
	return article, nil
}
