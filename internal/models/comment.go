package models

import (
	"time"
)

// Comment represents a comment on an article. ParentID is empty for
// top-level comments; a non-empty ParentID references another comment on
// the same article and enables threaded display. Comments are append-only.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	ArticleID string    `json:"article_id" db:"article_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	ParentID  string    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommentWithAuthor is a comment annotated with its author's display
// identity, as listed on the article page. Ordering is creation order so
// the presentation layer can assemble parent/child threads.
type CommentWithAuthor struct {
	Comment
	AuthorEmail string `json:"author_email" db:"author_email"`
}
