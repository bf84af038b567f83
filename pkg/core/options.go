package core

import (
	"time"

	"github.com/fairjournal/journalfs/pkg/metrics"
	"github.com/fairjournal/journalfs/pkg/verify"
	"go.uber.org/zap"
)

const (
	// DefaultMaxBlobSize is the default limit on the size of an ingested blob
	DefaultMaxBlobSize = 10 * metrics.MB

	// DefaultProjectName is the default namespace in the sign data of updates
	DefaultProjectName = "fair-journal"

	// DefaultStorageTimeout bounds every call to the storage backend
	DefaultStorageTimeout = 30 * time.Second
)

// Option for the core service
type Option func(*Settings)

// Settings of the core service
type Settings struct {
	logger         *zap.Logger
	verifier       verify.Verifier
	metrics        *metrics.Metrics
	maxBlobSize    int64
	projectName    string
	storageTimeout time.Duration
	now            func() time.Time
}

// WithLogger sets a logger. It defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVerifier sets the signature verifier for updates. It defaults to ed25519 signatures.
func WithVerifier(verifier verify.Verifier) Option {
	return func(s *Settings) {
		if verifier != nil {
			s.verifier = verifier
		}
	}
}

// WithMetrics sets prometheus collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Settings) {
		s.metrics = m
	}
}

// WithMaxBlobSize sets the limit (inclusive) on the size of ingested blobs
func WithMaxBlobSize(size int64) Option {
	return func(s *Settings) {
		if size > 0 {
			s.maxBlobSize = size
		}
	}
}

// WithProjectName sets the project namespace expected in updates
func WithProjectName(name string) Option {
	return func(s *Settings) {
		if name != "" {
			s.projectName = name
		}
	}
}

// WithStorageTimeout bounds every call to the storage backend
func WithStorageTimeout(timeout time.Duration) Option {
	return func(s *Settings) {
		if timeout > 0 {
			s.storageTimeout = timeout
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Settings) {
		s.now = now
	}
}

func defaultSettings() Settings {
	return Settings{
		logger:         zap.NewNop(),
		verifier:       verify.Ed25519{},
		maxBlobSize:    DefaultMaxBlobSize,
		projectName:    DefaultProjectName,
		storageTimeout: DefaultStorageTimeout,
		now:            time.Now,
	}
}
