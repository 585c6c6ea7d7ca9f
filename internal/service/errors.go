package service

import (
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrLoginRequired = errors.New("login required")
	ErrForbidden     = errors.New("forbidden")
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is returned by Create and Update when the submitted form is invalid.
// Form echoes the submitted values so the caller can re-render it.
type ValidationError struct {
	Fields []FieldError
	Form   *TopicForm
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
