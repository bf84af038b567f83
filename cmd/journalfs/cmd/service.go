package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/fairjournal/journalfs/pkg/config"
	"github.com/fairjournal/journalfs/pkg/core"
	"github.com/fairjournal/journalfs/pkg/dlogger"
	"github.com/fairjournal/journalfs/pkg/metrics"
	"github.com/fairjournal/journalfs/pkg/storage"
	"github.com/fairjournal/journalfs/pkg/storage/gcs"
	"github.com/fairjournal/journalfs/pkg/storage/localfs"
	"github.com/fairjournal/journalfs/pkg/storage/sthree"
	"github.com/fairjournal/journalfs/pkg/vfs"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const vfsDir = "vfs"

func newLogger(cfg config.Config) *zap.Logger {
	logger, err := dlogger.GetLogger(cfg.LogLevel)
	if err != nil {
		wrapFatalln("failed to set log level", err)
		return zap.NewNop()
	}
	return logger
}

// newObjectStore builds the key/value store behind the storage network
func newObjectStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	backend := cfg.Backend
	switch backend.Kind {
	case config.BackendLocalFS:
		store, err = localfs.NewAtPath(backend.Path)
	case config.BackendS3:
		awsConfig := aws.NewConfig()
		if backend.Region != "" {
			awsConfig = awsConfig.WithRegion(backend.Region)
		}
		if backend.Endpoint != "" {
			awsConfig = awsConfig.WithEndpoint(backend.Endpoint).WithS3ForcePathStyle(true)
		}
		if backend.Credentials != "" {
			awsConfig = awsConfig.WithCredentials(credentials.NewSharedCredentials(backend.Credentials, ""))
		}
		store, err = sthree.New(sthree.Bucket(backend.Bucket), sthree.AWSConfig(awsConfig))
	case config.BackendGCS:
		store, err = gcs.New(ctx, backend.Bucket, backend.Credentials)
	default:
		err = fmt.Errorf("unsupported backend kind %q", backend.Kind)
	}
	if err != nil {
		return nil, err
	}
	return storage.Instrument(opentracing.GlobalTracer(), logger, store), nil
}

// openService opens the local database and the storage network. The returned service must be closed.
func openService(ctx context.Context, cfg config.Config, logger *zap.Logger, reg prometheus.Registerer) (*core.Service, error) {
	maxBlobSize, err := cfg.MaxBlobBytes()
	if err != nil {
		return nil, err
	}
	objects, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage backend %s: %w", cfg.Backend.Kind, err)
	}

	store, err := vfs.Open(filepath.Join(cfg.DataDir, vfsDir), vfs.WithLogger(logger.Named("badger")))
	if err != nil {
		return nil, fmt.Errorf("opening database in %s: %w", cfg.DataDir, err)
	}

	opts := []core.Option{
		core.WithLogger(logger),
		core.WithProjectName(cfg.ProjectName),
		core.WithMaxBlobSize(maxBlobSize),
		core.WithStorageTimeout(cfg.StorageTimeout),
	}
	if reg != nil {
		m, err := metrics.New(reg)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, core.WithMetrics(m))
	}

	svc, err := core.New(store, storage.NewBags(objects), opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return svc, nil
}
