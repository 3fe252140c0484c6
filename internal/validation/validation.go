// Package validation provides field-keyed input validation.
package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"devconnector/internal/models"
)

// Errors maps an input field to the first problem found with it.
type Errors map[string]string

func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns nil when there are no errors, otherwise a validation AppError.
func (e Errors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return models.NewFieldValidationError(e)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmail(s string) bool {
	return len(s) <= 254 && emailRegex.MatchString(s)
}

func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func between(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
