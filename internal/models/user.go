package models

import (
	"time"
)

// User represents a registered account. Emails are stored trimmed and
// lower-cased; uniqueness is enforced by the store.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
