// Copyright © 2018 One Concern

package vfs

import (
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Option for the store
type Option func(*options)

type options struct {
	inMemory bool
	logger   *zap.Logger
}

// WithInMemory keeps the whole database in memory. The directory is then ignored.
func WithInMemory(flag bool) Option {
	return func(o *options) {
		o.inMemory = flag
	}
}

// WithLogger routes badger's own logs to a zap logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Store is the badger backed persistence of file systems and blob rows
type Store struct {
	db     *badger.DB
	logger *zap.Logger
	close  sync.Once
}

// Open a store in some directory
func Open(dir string, opts ...Option) (*Store, error) {
	o := options{logger: zap.NewNop()}
	for _, apply := range opts {
		apply(&o)
	}

	bopts := badger.DefaultOptions(dir).WithLogger(badgerLogger{o.logger.Sugar()})
	if o.inMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, logger: o.logger}, nil
}

// Close the database. Closing several times is a no-op.
func (s *Store) Close() error {
	var err error
	s.close.Do(func() {
		err = s.db.Close()
	})
	return err
}

// Reset drops all the content of the store
func (s *Store) Reset() error {
	return s.db.DropAll()
}

// Update runs a read-write transaction. Nothing is persisted if fn fails.
//
// When another transaction committed conflicting writes meanwhile, Update fails with ErrConflict.
func (s *Store) Update(fn func(*Txn) error) error {
	return badgerRewriteError(s.db.Update(func(txn *badger.Txn) error {
		return fn(&Txn{txn: txn})
	}))
}

// View runs a read-only transaction
func (s *Store) View(fn func(*Txn) error) error {
	return badgerRewriteError(s.db.View(func(txn *badger.Txn) error {
		return fn(&Txn{txn: txn})
	}))
}

// badgerLogger adapts zap to badger's logger
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
