package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/markdown-blog/internal/database"
	"github.com/markdown-blog/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article. A unique violation on the slug column is
// mapped to models.ErrDuplicateSlug.
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, slug, title, description, body, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Slug, article.Title, article.Description, article.Body,
		nullableID(article.AuthorID), article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "articles_slug_key") {
			return models.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Update overwrites an article's mutable fields, including a regenerated
// slug and the (possibly back-filled) author. Last write wins; there is no
// optimistic locking at this scale.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET slug = $2, title = $3, description = $4, body = $5, author_id = $6, updated_at = $7
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Slug, article.Title, article.Description, article.Body,
		nullableID(article.AuthorID), time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err, "articles_slug_key") {
			return models.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Delete removes an article. Dependent comments are removed by the store's
// ON DELETE CASCADE constraint.
func (r *articleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return err
}

// GetByID retrieves an article by ID; nil when absent
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `
		SELECT id, slug, title, description, body, author_id, created_at, updated_at
		FROM articles WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves an article by its slug; nil when absent. This is the
// canonical public lookup.
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `
		SELECT id, slug, title, description, body, author_id, created_at, updated_at
		FROM articles WHERE slug = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// List retrieves all articles, newest first
func (r *articleRepo) List(ctx context.Context) ([]*models.Article, error) {
	query := `
		SELECT id, slug, title, description, body, author_id, created_at, updated_at
		FROM articles ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

// ListByAuthor retrieves one author's articles, newest first
func (r *articleRepo) ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	query := `
		SELECT id, slug, title, description, body, author_id, created_at, updated_at
		FROM articles WHERE author_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *articleRepo) scanOne(row *sql.Row) (*models.Article, error) {
	var article models.Article
	var authorID sql.NullString

	err := row.Scan(
		&article.ID, &article.Slug, &article.Title, &article.Description, &article.Body,
		&authorID, &article.CreatedAt, &article.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		article.AuthorID = authorID.String
	}
	return &article, nil
}

func (r *articleRepo) scanAll(rows *sql.Rows) ([]*models.Article, error) {
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		var article models.Article
		var authorID sql.NullString

		err := rows.Scan(
			&article.ID, &article.Slug, &article.Title, &article.Description, &article.Body,
			&authorID, &article.CreatedAt, &article.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if authorID.Valid {
			article.AuthorID = authorID.String
		}
		articles = append(articles, &article)
	}
	return articles, rows.Err()
}
