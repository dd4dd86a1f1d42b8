// Package storage abstracts file storage for product images. Derivative
// generation (thumbnails, previews) is delegated to whatever serves the
// stored files; this layer only persists originals and hands back paths.
package storage

import "io"

// Storage persists uploaded files and resolves their public URLs
type Storage interface {
	// Save writes the content under a generated name and returns the
	// stored file name and its path relative to the storage root.
	Save(content io.Reader, originalName string) (fileName string, filePath string, err error)

	// Delete removes a stored file by its relative path
	Delete(filePath string) error

	// PublicURL resolves the relative path to a client-facing URL
	PublicURL(filePath string) string
}
