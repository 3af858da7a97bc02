package search

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrMalformedEntry is returned when a catalog record lacks a usable name or description.
	ErrMalformedEntry = errors.New("malformed catalog entry")

	// ErrInvalidInput is returned when a query is not a string.
	ErrInvalidInput = errors.New("invalid input")
)

// MalformedEntryError describes which record and field failed validation
type MalformedEntryError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("%s at index %d: %q %s", ErrMalformedEntry, e.Index, e.Field, e.Reason)
}

func (e *MalformedEntryError) Unwrap() error {
	return ErrMalformedEntry
}

// ParseQuery accepts a decoded query value and returns it as a string.
// Values of any other type are rejected without coercion.
func ParseQuery(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: query must be a string, got %T", ErrInvalidInput, v)
	}
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: query is not valid UTF-8", ErrInvalidInput)
	}
	return s, nil
}
