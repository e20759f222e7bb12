package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a collection of validation errors. It implements error so
// services can return it alongside the domain error taxonomy; handlers
// unwrap it with errors.As to redisplay forms with field messages.
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ValidateSignup validates signup form input. The email is expected to be
// normalized (trimmed, lower-cased) already.
func ValidateSignup(email, password string) Errors {
	var errs Errors

	if email == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, ValidationError{Field: "email", Message: "invalid email format"})
	}

	if password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	}

	return errs
}

// ValidateLogin validates login form input
func ValidateLogin(email, password string) Errors {
	var errs Errors

	if email == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "email is required"})
	}
	if password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	}

	return errs
}

// ValidateArticleInput validates article form input
func ValidateArticleInput(title, description, body string) Errors {
	var errs Errors

	if strings.TrimSpace(title) == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(description) == "" {
		errs = append(errs, ValidationError{Field: "description", Message: "description is required"})
	}
	if strings.TrimSpace(body) == "" {
		errs = append(errs, ValidationError{Field: "markdown", Message: "body is required"})
	}

	return errs
}

// ValidateComment validates comment form input. Content is expected to be
// trimmed already.
func ValidateComment(content string) Errors {
	var errs Errors

	if content == "" {
		errs = append(errs, ValidationError{Field: "content", Message: "content is required"})
	}

	return errs
}
