package models

import "errors"

// Domain errors shared between the repository and service layers. Handlers
// map these onto redirects or form re-renders; they are never shown raw.
var (
	// ErrNotFound covers malformed identifiers as well as genuinely
	// missing records.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when an operation is attempted on an
	// article owned by someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateEmail is returned on signup with an email that is
	// already registered (case-insensitive).
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrDuplicateSlug is returned when saving an article whose title
	// derives a slug already taken by another article.
	ErrDuplicateSlug = errors.New("slug already in use")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
