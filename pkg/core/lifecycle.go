package core

import (
	"context"
	"sort"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/vfs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ReconcileReport summarizes the differences found between blob rows and the storage backend
type ReconcileReport struct {
	// Removed holds the handles of backend objects which no blob row referred to
	Removed []string `json:"removed" yaml:"removed"`

	// Missing holds the sha256 of blob rows whose backend object is gone
	Missing []string `json:"missing" yaml:"missing"`

	// Checked is the number of blob rows examined
	Checked int `json:"checked" yaml:"checked"`
}

// Reset drops all file systems, blob rows, sequence counters and the update log.
//
// Backend objects are left in place: Reconcile removes them.
func (s *Service) Reset(_ context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.logger.Info("resetting file systems")
	return s.store.Reset()
}

// Reconcile aligns the storage backend with blob rows.
//
// Backend objects which no blob row refers to, such as the leftovers of interrupted ingestions,
// are removed. Blob rows without a backend object are reported, not fixed.
//
// Ingestions wait while Reconcile runs, so a freshly uploaded object is never taken for an orphan.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	if err := s.checkOpen(); err != nil {
		return report, err
	}

	// ingestions hold the read lock from upload until their row is persisted
	s.backendMu.Lock()
	defer s.backendMu.Unlock()

	var blobs []model.Blob
	if err := s.store.View(func(txn *vfs.Txn) error {
		var err error
		blobs, err = txn.Blobs()
		return err
	}); err != nil {
		return report, err
	}

	lctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	handles, err := s.backend.List(lctx)
	cancel()
	if err != nil {
		return report, status.StorageBackend(err)
	}

	known := make(map[string]struct{}, len(blobs))
	for _, blob := range blobs {
		known[blob.StorageHandle] = struct{}{}
	}
	// orphans are removed one by one: a failed removal does not prevent the others
	var removeErr error
	stored := make(map[string]struct{}, len(handles))
	for _, handle := range handles {
		stored[handle] = struct{}{}
		if _, ok := known[handle]; ok {
			continue
		}
		rctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
		err := s.backend.Remove(rctx, handle)
		cancel()
		if err != nil {
			removeErr = multierr.Append(removeErr, err)
			continue
		}
		s.logger.Info("removed orphan object", zap.String("handle", handle))
		report.Removed = append(report.Removed, handle)
	}

	for _, blob := range blobs {
		report.Checked++
		if _, ok := stored[blob.StorageHandle]; !ok {
			s.logger.Warn("blob missing from storage backend", zap.String("sha256", blob.SHA256), zap.String("handle", blob.StorageHandle))
			report.Missing = append(report.Missing, blob.SHA256)
		}
	}
	sort.Strings(report.Missing)

	if removeErr != nil {
		return report, status.StorageBackend(removeErr)
	}
	return report, nil
}

// Close the service and its VFS store. The storage backend is not owned by the service.
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("error on close", zap.Error(err))
		return err
	}
	return nil
}
