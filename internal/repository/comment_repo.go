package repository

import (
	"context"
	"database/sql"

	"github.com/markdown-blog/internal/database"
	"github.com/markdown-blog/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, author_id, content, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.ArticleID, comment.AuthorID, comment.Content,
		nullableID(comment.ParentID), comment.CreatedAt,
	)
	return err
}

// ListByArticle retrieves all comments on an article in creation order,
// each annotated with its author's email. The stable ordering lets the
// presentation layer assemble parent/child threads.
func (r *commentRepo) ListByArticle(ctx context.Context, articleID string) ([]*models.CommentWithAuthor, error) {
	query := `
		SELECT c.id, c.article_id, c.author_id, c.content, c.parent_id, c.created_at, u.email
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.article_id = $1
		ORDER BY c.created_at, c.id
	`
	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.CommentWithAuthor
	for rows.Next() {
		var comment models.CommentWithAuthor
		var parentID sql.NullString

		err := rows.Scan(
			&comment.ID, &comment.ArticleID, &comment.AuthorID, &comment.Content,
			&parentID, &comment.CreatedAt, &comment.AuthorEmail,
		)
		if err != nil {
			return nil, err
		}

		if parentID.Valid {
			comment.ParentID = parentID.String
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}
