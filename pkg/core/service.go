// Copyright © 2018 One Concern

package core

import (
	"fmt"
	"sync"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/storage"
	"github.com/fairjournal/journalfs/pkg/vfs"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

// Service is the journalfs engine, owning a VFS store and a storage backend
type Service struct {
	Settings

	store   *vfs.Store
	backend storage.Backend

	authors    *keyedMutex
	ingestions singleflight.Group

	// held for reading by ingestions between upload and persisted row, for writing by Reconcile
	backendMu sync.RWMutex
	closed     *atomic.Bool
}

// New core service
func New(store *vfs.Store, backend storage.Backend, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("a VFS store is required")
	}
	if backend == nil {
		return nil, fmt.Errorf("a storage backend is required")
	}

	s := &Service{
		Settings: defaultSettings(),
		store:    store,
		backend:  backend,
		authors:  newKeyedMutex(),
		closed:   atomic.NewBool(false),
	}
	for _, apply := range opts {
		apply(&s.Settings)
	}
	return s, nil
}

// ProjectName expected in updates
func (s *Service) ProjectName() string {
	return s.projectName
}

// MaxBlobSize is the largest blob accepted for ingestion
func (s *Service) MaxBlobSize() int64 {
	return s.maxBlobSize
}

func (s *Service) checkOpen() error {
	if s.closed.Load() {
		return status.ErrClosed
	}
	return nil
}
