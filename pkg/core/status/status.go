// Package status exports errors produced by the core package.
//
// Errors carrying a parameter (a hash, an address, a slug) are derived from these sentinels
// with Withf, so errors.Is(err, ErrReferenceNotFound) holds while the message names the hash.
package status

import (
	"github.com/fairjournal/journalfs/pkg/errors"
)

var (
	// ErrSignatureInvalid indicates an update which was not signed by its claimed author
	ErrSignatureInvalid = errors.New("Invalid signature")

	// ErrSequenceConflict indicates an update which does not immediately follow the author's last applied update
	ErrSequenceConflict = errors.New("Sequence conflict")

	// ErrParentNotFound indicates that the parent of a new node is not an existing directory
	ErrParentNotFound = errors.New("Parent not found")

	// ErrReferenceNotFound indicates a file bound to a blob which was never ingested
	ErrReferenceNotFound = errors.New("Reference not found")

	// ErrUserNotFound indicates an unregistered user address
	ErrUserNotFound = errors.New("User not found")

	// ErrArticleNotFound indicates that some segment of an article's path is missing
	ErrArticleNotFound = errors.New("Article not found")

	// ErrFileNotFound indicates a missing node in a user's namespace
	ErrFileNotFound = errors.New("file not found")

	// ErrFileTooLarge indicates a blob exceeding the configured maximum size
	ErrFileTooLarge = errors.New("File too large")

	// ErrStorageBackend indicates a failure of the remote storage network
	ErrStorageBackend = errors.New("Storage backend error")

	// ErrInvalidAction indicates an action which cannot be applied as declared
	ErrInvalidAction = errors.New("Invalid action")

	// ErrNodeExists indicates an attempt to create a node at a path already taken
	ErrNodeExists = errors.New("Node already exists")

	// ErrInvalidUpdate indicates a malformed update payload
	ErrInvalidUpdate = errors.New("Invalid update")

	// ErrClosed indicates that the service has been closed
	ErrClosed = errors.New("service closed")
)

// ReferenceNotFound builds the error for a missing blob
func ReferenceNotFound(hash string) error {
	return ErrReferenceNotFound.Withf(`Reference "%s" not found`, hash)
}

// UserNotFound builds the error for an unregistered address
func UserNotFound(address string) error {
	return ErrUserNotFound.Withf(`User not found: "%s"`, address)
}

// FileNotFound builds the error for a missing path segment
func FileNotFound(segment string) error {
	return ErrFileNotFound.Withf(`file not found: "%s"`, segment)
}

// ArticleNotFound builds the error for a missing article, chaining the cause in the message
func ArticleNotFound(slug string, cause error) error {
	if cause == nil {
		return ErrArticleNotFound.Withf(`Article not found: "%s"`, slug)
	}
	return ErrArticleNotFound.Withf(`Article not found: "%s". %v`, slug, cause).Wrap(cause)
}

// ParentNotFound builds the error for a node created under a missing directory
func ParentNotFound(pth, parent string) error {
	return ErrParentNotFound.Withf(`Parent not found: "%s" for "%s"`, parent, pth)
}

// NodeExists builds the error for a path already taken
func NodeExists(pth string) error {
	return ErrNodeExists.Withf(`Node already exists: "%s"`, pth)
}

// SequenceConflict builds the error for an out of order update
func SequenceConflict(address string, expected, got uint64) error {
	return ErrSequenceConflict.Withf(`Sequence conflict for user "%s": expected update %d, got %d`, address, expected, got)
}

// StorageBackend wraps a failure of the storage backend
func StorageBackend(cause error) error {
	return ErrStorageBackend.Withf("Storage backend error: %v", cause).Wrap(cause)
}
