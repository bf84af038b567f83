// Copyright © 2018 One Concern

package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fairjournal/journalfs/pkg/errors"
	"github.com/fairjournal/journalfs/pkg/storage/status"
	"golang.org/x/crypto/blake2b"
)

const (
	bagsPrefix = "bags/"

	// HandleSizeHex is the length of the hex representation of a bag handle
	HandleSizeHex = 2 * blake2b.Size256
)

// Backend is the contract of the remote content-addressed storage network.
//
// Calls may be slow and fail: callers are expected to bound them with a context deadline.
// Implementations never retry on their own.
type Backend interface {
	String() string

	// Upload stores bytes and returns the backend's handle to retrieve them.
	// Uploading the same bytes twice yields the same handle and a single object.
	Upload(context.Context, []byte) (string, error)

	// List all handles held by the backend
	List(context.Context) ([]string, error)

	// Remove the object behind a handle. Removing a missing object is not an error.
	Remove(context.Context, string) error

	// Fetch the bytes behind a handle
	Fetch(context.Context, string) ([]byte, error)
}

// HandleFor computes the content address of some bytes: the hex encoded blake2b-256 digest
func HandleFor(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReferenceFor derives the externally visible reference of a blob from its backend handle
func ReferenceFor(handle string) (string, error) {
	reference := strings.ToLower(strings.TrimSpace(handle))
	if err := validateHandle(reference); err != nil {
		return "", err
	}
	return reference, nil
}

func validateHandle(handle string) error {
	if len(handle) != HandleSizeHex {
		return status.ErrInvalidHandle.Withf("invalid bag handle %q: expected %d hex characters", handle, HandleSizeHex)
	}
	if _, err := hex.DecodeString(handle); err != nil {
		return status.ErrInvalidHandle.Withf("invalid bag handle %q: not hex encoded", handle).Wrap(err)
	}
	return nil
}

// NewBags builds a content-addressed backend on top of a key/value store.
//
// Each object is kept under bags/<handle>, where handle is the blake2b-256 digest of its bytes.
func NewBags(store Store) Backend {
	return &bags{store: store}
}

type bags struct {
	store Store
}

func bagKey(handle string) string {
	return bagsPrefix + handle
}

func (b *bags) String() string {
	return "bags@" + b.store.String()
}

func (b *bags) Upload(ctx context.Context, data []byte) (string, error) {
	handle := HandleFor(data)
	key := bagKey(handle)

	has, err := b.store.Has(ctx, key)
	if err != nil {
		return "", fmt.Errorf("checking bag %s: %w", handle, err)
	}
	if has {
		return handle, nil
	}

	err = b.store.Put(ctx, key, bytes.NewReader(data), NoOverWrite)
	if err != nil && !errors.Is(err, status.ErrExists) {
		return "", fmt.Errorf("uploading bag %s: %w", handle, err)
	}
	// a concurrent upload of the same bytes already created the object
	return handle, nil
}

func (b *bags) List(ctx context.Context) ([]string, error) {
	keys, err := b.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bags: %w", err)
	}
	handles := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimPrefix(key, "/")
		if !strings.HasPrefix(key, bagsPrefix) {
			continue
		}
		handle := strings.TrimPrefix(key, bagsPrefix)
		if validateHandle(handle) != nil {
			continue
		}
		handles = append(handles, handle)
	}
	sort.Strings(handles)
	return handles, nil
}

func (b *bags) Remove(ctx context.Context, handle string) error {
	if err := validateHandle(handle); err != nil {
		return err
	}
	if err := b.store.Delete(ctx, bagKey(handle)); err != nil && !isNotExists(err) {
		return fmt.Errorf("removing bag %s: %w", handle, err)
	}
	return nil
}

func (b *bags) Fetch(ctx context.Context, handle string) ([]byte, error) {
	if err := validateHandle(handle); err != nil {
		return nil, err
	}
	rdr, err := b.store.Get(ctx, bagKey(handle))
	if err != nil {
		return nil, fmt.Errorf("fetching bag %s: %w", handle, err)
	}
	defer rdr.Close()

	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("reading bag %s: %w", handle, err)
	}
	if HandleFor(data) != handle {
		return nil, status.ErrStorageAPI.Withf("bag %s is corrupted: content does not match its handle", handle)
	}
	return data, nil
}

func isNotExists(err error) bool {
	return errors.Is(err, status.ErrNotExists) || errors.Is(err, status.ErrNotFound)
}
