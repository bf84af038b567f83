package vfs

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/fairjournal/journalfs/pkg/errors"
)

var (
	// ErrNotFound is returned when a key is missing
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when creating a record which is already there
	ErrExists = errors.New("already exists")

	// ErrConflict is returned when a transaction collides with a concurrent one at commit time
	ErrConflict = errors.New("transaction conflict")

	// ErrCorrupted is returned when a record cannot be decoded
	ErrCorrupted = errors.New("corrupted record")
)

func badgerRewriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return ErrNotFound
	case errors.Is(err, badger.ErrConflict):
		return ErrConflict.Wrap(err)
	default:
		return err
	}
}
