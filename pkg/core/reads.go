package core

import (
	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/vfs"
)

// LastSequence returns the sequence number of the last update applied for an author, or 0
func (s *Service) LastSequence(address string) (uint64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var seq uint64
	err := s.store.View(func(txn *vfs.Txn) error {
		var err error
		seq, err = txn.Sequence(address)
		return err
	})
	return seq, err
}

// UpdatesCount is the total number of accepted updates, for all authors
func (s *Service) UpdatesCount() (uint64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var count uint64
	err := s.store.View(func(txn *vfs.Txn) error {
		count = txn.CountLog()
		return nil
	})
	return count, err
}

// History returns the accepted updates of an author, in sequence order
func (s *Service) History(address string) ([]model.LogEntry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var entries []model.LogEntry
	err := s.store.View(func(txn *vfs.Txn) error {
		var err error
		entries, err = txn.Log(address)
		return err
	})
	return entries, err
}

// ListNodes returns the children of a directory in an owner's namespace, in creation order
func (s *Service) ListNodes(owner, dir string) ([]model.Node, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := model.ValidatePath(dir); err != nil {
		return nil, status.FileNotFound(dir)
	}

	var nodes []model.Node
	err := s.store.View(func(txn *vfs.Txn) error {
		if err := requireUser(txn, owner); err != nil {
			return err
		}
		node, err := txn.GetNode(owner, dir)
		if err == vfs.ErrNotFound || (err == nil && !node.IsDir()) {
			return status.FileNotFound(dir)
		}
		if err != nil {
			return err
		}
		nodes, err = txn.Children(owner, dir)
		return err
	})
	return nodes, err
}
