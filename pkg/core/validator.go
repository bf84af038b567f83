package core

import (
	"context"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/errors"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/vfs"
	"go.uber.org/zap"
)

// ApplyUpdate verifies a signed update and applies all its actions in a single transaction.
//
// The update must immediately follow the last update applied for its author. Updates for the same
// author are applied one at a time, updates for distinct authors run concurrently.
//
// On failure, nothing is changed: no node is created and the author's sequence is not advanced.
func (s *Service) ApplyUpdate(ctx context.Context, u *model.Update) (err error) {
	if err = s.checkOpen(); err != nil {
		return err
	}
	if u == nil {
		return status.ErrInvalidUpdate
	}

	done := s.metrics.UpdateStarted()
	defer func() {
		done()
		s.metrics.UpdateApplied(err)
	}()

	if err = s.verify(u); err != nil {
		s.logger.Info("update rejected", zap.String("author", u.UserAddress), zap.Uint64("id", u.ID), zap.Error(err))
		return err
	}

	unlock := s.authors.Lock(u.UserAddress)
	defer unlock()

	if err = ctx.Err(); err != nil {
		return err
	}

	err = s.store.Update(func(txn *vfs.Txn) error {
		last, erl := txn.Sequence(u.UserAddress)
		if erl != nil {
			return erl
		}
		if u.ID != last+1 {
			return status.SequenceConflict(u.UserAddress, last+1, u.ID)
		}

		now := s.now().UTC()
		a := &applier{txn: txn, owner: u.UserAddress, now: now}
		for _, action := range u.Actions {
			if era := a.apply(action); era != nil {
				return era
			}
		}

		if ers := txn.SetSequence(u.UserAddress, u.ID); ers != nil {
			return ers
		}
		return txn.AppendLog(model.LogEntry{
			UserAddress: u.UserAddress,
			ID:          u.ID,
			Update:      u,
			AppliedAt:   now,
		})
	})
	if errors.Is(err, vfs.ErrConflict) {
		err = status.ErrSequenceConflict.Withf(`Sequence conflict for user "%s": concurrent update %d`, u.UserAddress, u.ID)
	}
	if err != nil {
		s.logger.Info("update rejected", zap.String("author", u.UserAddress), zap.Uint64("id", u.ID), zap.Error(err))
		return err
	}

	s.logger.Debug("update applied",
		zap.String("author", u.UserAddress),
		zap.Uint64("id", u.ID),
		zap.Int("actions", len(u.Actions)),
	)
	return nil
}

func (s *Service) verify(u *model.Update) error {
	if u.Signature == "" {
		return status.ErrSignatureInvalid.Withf("Invalid signature: update is not signed")
	}
	if err := u.Validate(); err != nil {
		return status.ErrInvalidUpdate.Withf("Invalid update: %v", err)
	}
	if u.ProjectName != s.projectName {
		return status.ErrSignatureInvalid.Withf("Invalid signature: update is signed for project %q", u.ProjectName)
	}
	if err := s.verifier.Verify(u); err != nil {
		if errors.Is(err, status.ErrSignatureInvalid) {
			return err
		}
		return status.ErrSignatureInvalid.Withf("Invalid signature: %v", err).Wrap(err)
	}
	return nil
}
