package models

import (
	"time"
)

// Article represents a blog post. The slug is derived from the title and
// serves as the public lookup key; uniqueness is enforced by the store.
// AuthorID is empty for legacy articles created before ownership existed.
type Article struct {
	ID          string    `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Body        string    `json:"body" db:"body"` // markdown source
	AuthorID    string    `json:"author_id,omitempty" db:"author_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Owned reports whether the article has an author assigned.
func (a *Article) Owned() bool {
	return a.AuthorID != ""
}

// OwnedBy reports whether the article belongs to the given user.
func (a *Article) OwnedBy(userID string) bool {
	return a.AuthorID == userID
}
