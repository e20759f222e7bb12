package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/repository"
	"github.com/markdown-blog/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	log      zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(comments repository.CommentRepository, articles repository.ArticleRepository, log zerolog.Logger) *commentService {
	return &commentService{
		comments: comments,
		articles: articles,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// Add creates a comment on the article identified by slug. Any
// authenticated user may comment; there is no ownership restriction.
// Returns models.ErrNotFound when the article is absent. A malformed
// parent reference is dropped rather than rejected, leaving a top-level
// comment.
func (s *commentService) Add(ctx context.Context, currentUserID, slug, content, parentID string) (*models.Comment, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.ErrNotFound
	}

	content = strings.TrimSpace(content)
	if errs := validation.ValidateComment(content); len(errs) > 0 {
		return nil, errs
	}

	parentID = strings.TrimSpace(parentID)
	if parentID != "" {
		if _, err := uuid.Parse(parentID); err != nil {
			parentID = ""
		}
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		ArticleID: article.ID,
		AuthorID:  currentUserID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info().Str("comment_id", comment.ID).Str("article_id", article.ID).Msg("Comment created")
	return comment, nil
}

// ListForArticle retrieves an article's comments in creation order, each
// annotated with its author's email
func (s *commentService) ListForArticle(ctx context.Context, articleID string) ([]*models.CommentWithAuthor, error) {
	return s.comments.ListByArticle(ctx, articleID)
}
