package api

import (
	"errors"
	"html/template"

	"github.com/markdown-blog/internal/validation"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// markdownPolicy strips anything a commenter or author could use for XSS
// while keeping user-generated formatting.
var markdownPolicy = bluemonday.UGCPolicy()

// renderMarkdown converts markdown source to sanitized HTML for display
func renderMarkdown(source string) template.HTML {
	unsafe := blackfriday.Run([]byte(source))
	return template.HTML(markdownPolicy.SanitizeBytes(unsafe))
}

// isValidationError reports whether err carries field-level validation
// messages rather than an unexpected failure.
func isValidationError(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}

// validationMessages extracts field messages for form redisplay; nil when
// err is not a validation error.
func validationMessages(err error) []validation.ValidationError {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}
