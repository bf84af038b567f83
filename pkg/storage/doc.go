// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// This package supports the following backends:
//   - GCS (Google)
//   - S3 (AWS)
//   - local file system
//
// On top of these key/value object stores, Bags exposes the content-addressed
// network contract used by blob ingestion: upload, list, remove and fetch,
// where every object is addressed by a handle derived from its bytes.
package storage
