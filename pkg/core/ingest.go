package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/errors"
	"github.com/fairjournal/journalfs/pkg/metrics"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/storage"
	storagestatus "github.com/fairjournal/journalfs/pkg/storage/status"
	"github.com/fairjournal/journalfs/pkg/vfs"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const maxPersistRetries = 3

// Ingest stores a blob in the storage backend and records its metadata.
//
// Ingesting the same content several times, sequentially or concurrently, yields the same
// metadata and a single backend object.
func (s *Service) Ingest(ctx context.Context, data []byte) (model.BlobMetadata, error) {
	if err := s.checkOpen(); err != nil {
		return model.BlobMetadata{}, err
	}
	if int64(len(data)) > s.maxBlobSize {
		s.metrics.BlobIngested(metrics.OutcomeRejected, int64(len(data)))
		return model.BlobMetadata{}, status.ErrFileTooLarge
	}

	sum := sha256.Sum256(data)
	sha := hex.EncodeToString(sum[:])

	// shared by concurrent callers: not bound to the first caller's cancellation
	sctx := context.WithoutCancel(ctx)
	res, err, shared := s.ingestions.Do(sha, func() (interface{}, error) {
		return s.ingest(sctx, sha, data)
	})
	if err != nil {
		s.metrics.BlobIngested(metrics.OutcomeFailed, int64(len(data)))
		return model.BlobMetadata{}, err
	}
	if shared {
		s.logger.Debug("shared concurrent ingestion", zap.String("sha256", sha))
	}
	return res.(model.Blob).Metadata(), nil
}

// IngestReader ingests the content of a reader, reading no more than the maximum blob size
func (s *Service) IngestReader(ctx context.Context, reader io.Reader) (model.BlobMetadata, error) {
	data, err := io.ReadAll(io.LimitReader(reader, s.maxBlobSize+1))
	if err != nil {
		return model.BlobMetadata{}, err
	}
	return s.Ingest(ctx, data)
}

func (s *Service) ingest(ctx context.Context, sha string, data []byte) (model.Blob, error) {
	var existing model.Blob
	err := s.store.View(func(txn *vfs.Txn) error {
		var erg error
		existing, erg = txn.GetBlob(sha)
		return erg
	})
	switch {
	case err == nil:
		s.metrics.BlobIngested(metrics.OutcomeDeduplicated, existing.Size)
		return existing, nil
	case err != vfs.ErrNotFound:
		return model.Blob{}, err
	}

	mimeType := detectMimeType(data)

	s.backendMu.RLock()
	defer s.backendMu.RUnlock()

	uctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	handle, err := s.backend.Upload(uctx, data)
	cancel()
	if err != nil {
		s.logger.Warn("blob upload failed", zap.String("sha256", sha), zap.Stringer("backend", s.backend), zap.Error(err))
		return model.Blob{}, status.StorageBackend(err)
	}
	reference, err := storage.ReferenceFor(handle)
	if err != nil {
		return model.Blob{}, status.StorageBackend(err)
	}

	blob := model.Blob{
		SHA256:        sha,
		Reference:     reference,
		Size:          int64(len(data)),
		MimeType:      mimeType,
		StorageHandle: handle,
		CreatedAt:     s.now().UTC(),
	}

	// the row is persisted only once the backend acknowledged the upload
	var (
		stored  model.Blob
		created bool
	)
	err = backoff.Retry(func() error {
		erp := s.store.Update(func(txn *vfs.Txn) error {
			var erc error
			stored, created, erc = txn.CreateBlob(blob)
			return erc
		})
		if erp != nil && !errors.Is(erp, vfs.ErrConflict) {
			return backoff.Permanent(erp)
		}
		return erp // retry on conflict: the next attempt finds the winning row
	},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), maxPersistRetries),
	)
	if err != nil {
		return model.Blob{}, err
	}

	outcome := metrics.OutcomeCreated
	if !created {
		outcome = metrics.OutcomeDeduplicated
	}
	s.metrics.BlobIngested(outcome, stored.Size)
	s.logger.Debug("blob ingested",
		zap.String("sha256", sha),
		zap.String("reference", stored.Reference),
		zap.String("outcome", outcome),
		zap.Int64("size", stored.Size),
	)
	return stored, nil
}

// detectMimeType sniffs the content type, without parameters such as the charset
func detectMimeType(data []byte) string {
	detected := mimetype.Detect(data).String()
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return detected
	}
	return mediaType
}

// FetchBlob retrieves the content of an ingested blob by its reference
func (s *Service) FetchBlob(ctx context.Context, reference string) ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var blob model.Blob
	err := s.store.View(func(txn *vfs.Txn) error {
		var erg error
		blob, erg = txn.GetBlobByReference(reference)
		return erg
	})
	if err == vfs.ErrNotFound {
		return nil, status.ReferenceNotFound(reference)
	}
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, blob)
}

func (s *Service) fetch(ctx context.Context, blob model.Blob) ([]byte, error) {
	fctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	data, err := s.backend.Fetch(fctx, blob.StorageHandle)
	if errors.Is(err, storagestatus.ErrNotExists) {
		return nil, status.ReferenceNotFound(blob.Reference)
	}
	if err != nil {
		return nil, status.StorageBackend(err)
	}
	return data, nil
}
