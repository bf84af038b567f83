// Package config describes the settings of a journalfs deployment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-units"
)

const (
	// DefaultProjectName is the project namespace signed into every update
	DefaultProjectName = "fair-journal"

	// DefaultMaxBlobSize is the largest blob accepted by the ingestion service
	DefaultMaxBlobSize = "10MiB"

	// DefaultStorageTimeout bounds every call to the storage backend
	DefaultStorageTimeout = 30 * time.Second

	// DefaultListen is the address the HTTP server binds to
	DefaultListen = ":5100"

	// BackendLocalFS stores bags on the local file system
	BackendLocalFS = "localfs"

	// BackendS3 stores bags in an S3 bucket
	BackendS3 = "s3"

	// BackendGCS stores bags in a Google Cloud Storage bucket
	BackendGCS = "gcs"
)

// Config for a journalfs instance.
//
// Field names are kept identical to their serialized form, so viper can unmarshal them.
type Config struct {
	ProjectName    string        `json:"project_name" yaml:"project_name" mapstructure:"project_name"`
	MaxBlobSize    string        `json:"max_blob_size" yaml:"max_blob_size" mapstructure:"max_blob_size"`
	DataDir        string        `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	StorageTimeout time.Duration `json:"storage_timeout" yaml:"storage_timeout" mapstructure:"storage_timeout"`
	Listen         string        `json:"listen" yaml:"listen" mapstructure:"listen"`
	LogLevel       string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Backend        Backend       `json:"backend" yaml:"backend" mapstructure:"backend"`
}

// Backend describes the remote storage network holding blob contents
type Backend struct {
	Kind        string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	Bucket      string `json:"bucket,omitempty" yaml:"bucket,omitempty" mapstructure:"bucket"`
	Region      string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty" mapstructure:"credentials"`
}

// Default configuration: a local data directory and a local file system backend
func Default() Config {
	return Config{
		ProjectName:    DefaultProjectName,
		MaxBlobSize:    DefaultMaxBlobSize,
		DataDir:        ".journalfs",
		StorageTimeout: DefaultStorageTimeout,
		Listen:         DefaultListen,
		LogLevel:       "info",
		Backend: Backend{
			Kind: BackendLocalFS,
			Path: ".journalfs/bags",
		},
	}
}

// MaxBlobBytes parses the configured maximum blob size (e.g. "10MiB", "512k")
func (c Config) MaxBlobBytes() (int64, error) {
	size, err := units.RAMInBytes(c.MaxBlobSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_blob_size %q: %w", c.MaxBlobSize, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("invalid max_blob_size %q: must be positive", c.MaxBlobSize)
	}
	return size, nil
}

// Validate the configuration
func (c Config) Validate() error {
	if strings.TrimSpace(c.ProjectName) == "" {
		return errors.New("project_name is required")
	}
	if _, err := c.MaxBlobBytes(); err != nil {
		return err
	}
	if c.StorageTimeout <= 0 {
		return errors.New("storage_timeout must be positive")
	}
	switch c.Backend.Kind {
	case BackendLocalFS:
		if c.Backend.Path == "" {
			return errors.New("backend.path is required for a localfs backend")
		}
	case BackendS3, BackendGCS:
		if c.Backend.Bucket == "" {
			return fmt.Errorf("backend.bucket is required for a %s backend", c.Backend.Kind)
		}
	default:
		return fmt.Errorf("unsupported backend kind %q", c.Backend.Kind)
	}
	return nil
}
