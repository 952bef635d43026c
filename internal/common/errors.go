// Package common defines shared constants and sentinel errors used across
// client and server layers of TaskKeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrDuplicate   = errors.New("duplicate key")
	ErrMalformedID = errors.New("malformed identifier")

	// Service-level errors.
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("missing required fields")
	ErrTitleRequired      = errors.New("task title required")

	// Auth errors. ErrInvalidToken covers bad signature, malformed encoding
	// and expiry alike.
	ErrInvalidToken = errors.New("invalid token")
	ErrNotOwner     = errors.New("not the resource owner")
)

// FieldError is a single failed field check.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every field that failed validation so the
// caller can report all of them at once.
type ValidationError struct {
	Fields []FieldError
}

// Add records a failed field check.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Messages returns the field messages in the order they were added.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), ", ")
}
