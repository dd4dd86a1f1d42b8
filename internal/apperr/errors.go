// Package apperr defines the error taxonomy surfaced at the HTTP boundary.
// Forbidden is structurally distinct from not-found on purpose: resource
// existence is not camouflaged behind 404.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the resource id does not resolve (HTTP 404)
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the actor is authenticated but not entitled (HTTP 403)
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials means the supplied current password failed
	// re-verification on a sensitive account operation (HTTP 422, generic message)
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrGalleryFull means the product already carries the maximum number of images
	ErrGalleryFull = errors.New("gallery is full")

	// ErrDuplicate means a uniqueness business rule was violated
	ErrDuplicate = errors.New("duplicate resource")
)

// DomainError is a business-rule violation carrying a human-readable message
// (HTTP 422, but with a specific message rather than a field map)
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Domainf builds a DomainError from a format string
func Domainf(format string, args ...interface{}) *DomainError {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err is a DomainError and returns it
func IsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
