package services

import (
	"errors"
	"strings"

	"casri/store"
)

var (
	// ErrNotFound is returned when an addressed record does not exist.
	ErrNotFound = store.ErrNotFound
	// ErrEmptyResult marks a scoped query that matched nothing. It is not a
	// failure; handlers answer it with 404 and a scope-specific message.
	ErrEmptyResult = errors.New("no records for this scope")
	// ErrForbidden marks an authenticated caller acting outside its rights.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned by Login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError rejects input before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func missingFields(fields []string) error {
	return &ValidationError{
		Field:   fields[0],
		Message: "Please fill in all required fields: " + strings.Join(fields, ", "),
	}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
