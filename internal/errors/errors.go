// Package errors holds the sentinel errors shared by every domain package.
// Domain errors wrap one of these so the HTTP layer can pick a status code
// without knowing about key stores or blob stores.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a key, record or blob does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means the caller sent something that can never succeed:
	// a blank name, malformed Base64, or a ciphertext that fails authentication.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable means a backing system (token, keeper, bucket, database)
	// could not serve the request. The same request may succeed later.
	ErrUnavailable = errors.New("unavailable")
)

// Wrap prefixes err with message and keeps it matchable with Is.
// A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Join attaches cause to a sentinel so that both match with errors.Is.
func Join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
