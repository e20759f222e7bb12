package service

import (
	"context"

	"github.com/markdown-blog/internal/config"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/repository"
	"github.com/rs/zerolog"
)

// AuthService defines the interface for identity and session operations.
// Every operation takes the session token or resolved user ID explicitly;
// there is no request-scoped identity state below the HTTP layer.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	StartSessionSweeper(ctx context.Context)
	StopSessionSweeper()
}

// ArticleService defines the interface for article lifecycle operations
type ArticleService interface {
	Create(ctx context.Context, authorID string, input ArticleInput) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetForEdit(ctx context.Context, currentUserID, id string) (*models.Article, error)
	Update(ctx context.Context, currentUserID, id string, input ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, currentUserID, id string) error
	List(ctx context.Context) ([]*models.Article, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error)
}

// CommentService defines the interface for comment operations
type CommentService interface {
	Add(ctx context.Context, currentUserID, slug, content, parentID string) (*models.Comment, error)
	ListForArticle(ctx context.Context, articleID string) ([]*models.CommentWithAuthor, error)
}

// Services holds all service interfaces
type Services struct {
	Auth    AuthService
	Article ArticleService
	Comment CommentService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Auth:    newAuthService(repos.User, repos.Session, &cfg.Session, log),
		Article: newArticleService(repos.Article, log),
		Comment: newCommentService(repos.Comment, repos.Article, log),
	}
}
