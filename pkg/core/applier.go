package core

import (
	"strings"
	"time"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/vfs"
)

// applier applies the actions of an update to the namespace of its author, inside the update's transaction
type applier struct {
	txn   *vfs.Txn
	owner string
	now   time.Time
}

func (a *applier) apply(action model.Action) error {
	switch act := action.(type) {
	case model.AddUser:
		return a.addUser(act)
	case model.AddDirectory:
		return a.addDirectory(act)
	case model.AddFile:
		return a.addFile(act)
	default:
		return status.ErrInvalidAction.Withf("Invalid action: unsupported action %T", action)
	}
}

// addUser creates the root of the owner's namespace, unless it already exists
func (a *applier) addUser(act model.AddUser) error {
	if act.UserAddress != a.owner {
		return status.ErrInvalidAction.Withf(`Invalid action: user "%s" cannot register "%s"`, a.owner, act.UserAddress)
	}

	_, err := a.txn.GetNode(a.owner, model.RootPath)
	switch {
	case err == nil:
		return nil
	case err != vfs.ErrNotFound:
		return err
	}

	if err = a.txn.PutUser(model.User{Address: a.owner, CreatedAt: a.now}); err != nil {
		return err
	}
	return a.txn.CreateNode(&model.Node{
		Owner:     a.owner,
		Path:      model.RootPath,
		Kind:      model.KindDirectory,
		CreatedAt: a.now,
	})
}

func (a *applier) addDirectory(act model.AddDirectory) error {
	if err := a.checkParent(act.Path); err != nil {
		return err
	}
	if err := a.checkAvailable(act.Path); err != nil {
		return err
	}
	return a.txn.CreateNode(&model.Node{
		Owner:     a.owner,
		Path:      act.Path,
		Kind:      model.KindDirectory,
		CreatedAt: a.now,
	})
}

// addFile binds a path to an ingested blob. The declared mime type and size are advisory:
// the node records the declared mime type and the blob's actual size.
func (a *applier) addFile(act model.AddFile) error {
	if err := a.checkParent(act.Path); err != nil {
		return err
	}

	blob, err := a.lookupBlob(strings.ToLower(act.Hash))
	if err == vfs.ErrNotFound {
		return status.ReferenceNotFound(act.Hash)
	}
	if err != nil {
		return err
	}
	if err = a.checkAvailable(act.Path); err != nil {
		return err
	}
	return a.txn.CreateNode(&model.Node{
		Owner:     a.owner,
		Path:      act.Path,
		Kind:      model.KindFile,
		MimeType:  act.MimeType,
		Size:      blob.Size,
		Hash:      blob.SHA256,
		Reference: blob.Reference,
		CreatedAt: a.now,
	})
}

// lookupBlob finds an ingested blob by the sha256 of its content, or else by its reference
func (a *applier) lookupBlob(hash string) (model.Blob, error) {
	blob, err := a.txn.GetBlob(hash)
	if err != vfs.ErrNotFound {
		return blob, err
	}
	return a.txn.GetBlobByReference(hash)
}

// checkParent requires the owner's root, a valid path and an existing parent directory
func (a *applier) checkParent(pth string) error {
	if _, err := a.txn.GetNode(a.owner, model.RootPath); err != nil {
		if err == vfs.ErrNotFound {
			return status.UserNotFound(a.owner)
		}
		return err
	}

	if err := model.ValidatePath(pth); err != nil {
		return status.ErrInvalidAction.Withf("Invalid action: %v", err)
	}
	if pth == model.RootPath {
		return status.NodeExists(pth)
	}

	parent := model.ParentPath(pth)
	node, err := a.txn.GetNode(a.owner, parent)
	switch {
	case err == vfs.ErrNotFound:
		return status.ParentNotFound(pth, parent)
	case err != nil:
		return err
	case !node.IsDir():
		return status.ParentNotFound(pth, parent)
	}
	return nil
}

func (a *applier) checkAvailable(pth string) error {
	_, err := a.txn.GetNode(a.owner, pth)
	switch {
	case err == nil:
		return status.NodeExists(pth)
	case err == vfs.ErrNotFound:
		return nil
	default:
		return err
	}
}
