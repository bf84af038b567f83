package vfs

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/fairjournal/journalfs/pkg/model"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Txn is a transaction over the store
type Txn struct {
	txn *badger.Txn
}

func (t *Txn) get(key []byte, target interface{}) error {
	item, err := t.txn.Get(key)
	if err != nil {
		return badgerRewriteError(err)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return ErrCorrupted.Withf("cannot decode %q: %v", key, err)
	}
	return nil
}

func (t *Txn) set(key []byte, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.txn.Set(key, data)
}

func (t *Txn) has(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case err == badger.ErrKeyNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (t *Txn) getUint(key []byte) (uint64, error) {
	item, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var value uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return ErrCorrupted.Withf("counter %q has length %d", key, len(val))
		}
		value = binary.BigEndian.Uint64(val)
		return nil
	})
	return value, err
}

func (t *Txn) setUint(key []byte, value uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	return t.txn.Set(key, buf[:])
}

// iterate over the values of all keys with some prefix, in key order
func (t *Txn) iterate(prefix []byte, fn func(value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

func (t *Txn) count(prefix []byte) uint64 {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := t.txn.NewIterator(opts)
	defer it.Close()

	var n uint64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		n++
	}
	return n
}

// GetUser retrieves a registered user
func (t *Txn) GetUser(address string) (model.User, error) {
	var user model.User
	err := t.get(userKey(address), &user)
	return user, err
}

// PutUser records a user
func (t *Txn) PutUser(user model.User) error {
	return t.set(userKey(user.Address), user)
}

// Sequence returns the last applied sequence number of a user, or 0 when the user never published
func (t *Txn) Sequence(address string) (uint64, error) {
	return t.getUint(seqKey(address))
}

// SetSequence records the last applied sequence number of a user
func (t *Txn) SetSequence(address string, id uint64) error {
	return t.setUint(seqKey(address), id)
}

// AppendLog records an accepted update
func (t *Txn) AppendLog(entry model.LogEntry) error {
	key := logKey(entry.UserAddress, entry.ID)
	exists, err := t.has(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrExists.Withf("update %d of %q is already logged", entry.ID, entry.UserAddress)
	}
	return t.set(key, entry)
}

// Log returns the accepted updates of a user, in sequence order
func (t *Txn) Log(address string) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	err := t.iterate(logPrefix(address), func(val []byte) error {
		var entry model.LogEntry
		if err := json.Unmarshal(val, &entry); err != nil {
			return ErrCorrupted.Withf("cannot decode log entry: %v", err)
		}
		entries = append(entries, entry)
		return nil
	})
	return entries, err
}

// CountLog counts all accepted updates, for all users
func (t *Txn) CountLog() uint64 {
	return t.count(logPref)
}

// GetNode retrieves the node at some path of an owner's namespace
func (t *Txn) GetNode(owner, pth string) (model.Node, error) {
	var node model.Node
	err := t.get(nodeKey(owner, pth), &node)
	return node, err
}

// CreateNode records a new node and indexes it under its parent.
//
// The creation order of the node is assigned from the owner's counter.
// CreateNode does not check that the parent exists: this is up to the caller.
func (t *Txn) CreateNode(node *model.Node) error {
	key := nodeKey(node.Owner, node.Path)
	exists, err := t.has(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrExists.Withf("node %q already exists", node.Path)
	}

	order, err := t.getUint(orderKey(node.Owner))
	if err != nil {
		return err
	}
	order++
	if err = t.setUint(orderKey(node.Owner), order); err != nil {
		return err
	}
	node.Order = order

	if err = t.set(key, node); err != nil {
		return err
	}
	if node.Path == model.RootPath {
		return nil
	}
	return t.txn.Set(childKey(node.Owner, model.ParentPath(node.Path), order), []byte(node.Path))
}

// Children of a directory, in creation order
func (t *Txn) Children(owner, dir string) ([]model.Node, error) {
	var paths []string
	err := t.iterate(childPrefix(owner, dir), func(val []byte) error {
		paths = append(paths, string(val))
		return nil
	})
	if err != nil {
		return nil, err
	}

	nodes := make([]model.Node, 0, len(paths))
	for _, pth := range paths {
		node, err := t.GetNode(owner, pth)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// GetBlob retrieves a blob row by the sha256 of its content
func (t *Txn) GetBlob(sha string) (model.Blob, error) {
	var blob model.Blob
	err := t.get(blobKey(sha), &blob)
	return blob, err
}

// CreateBlob records a blob row unless one exists already for the same sha256.
//
// It returns the row as stored, and whether it was created by this call.
func (t *Txn) CreateBlob(blob model.Blob) (model.Blob, bool, error) {
	existing, err := t.GetBlob(blob.SHA256)
	switch {
	case err == nil:
		return existing, false, nil
	case err != ErrNotFound:
		return model.Blob{}, false, err
	}
	if err := t.set(blobKey(blob.SHA256), blob); err != nil {
		return model.Blob{}, false, err
	}
	if err := t.txn.Set(refKey(blob.Reference), []byte(blob.SHA256)); err != nil {
		return model.Blob{}, false, err
	}
	return blob, true, nil
}

// GetBlobByReference retrieves a blob row by its external reference
func (t *Txn) GetBlobByReference(reference string) (model.Blob, error) {
	item, err := t.txn.Get(refKey(reference))
	if err != nil {
		return model.Blob{}, badgerRewriteError(err)
	}
	sha, err := item.ValueCopy(nil)
	if err != nil {
		return model.Blob{}, err
	}
	return t.GetBlob(string(sha))
}

// Blobs lists all blob rows, by sha256
func (t *Txn) Blobs() ([]model.Blob, error) {
	var blobs []model.Blob
	err := t.iterate(blobPref, func(val []byte) error {
		var blob model.Blob
		if err := json.Unmarshal(val, &blob); err != nil {
			return ErrCorrupted.Withf("cannot decode blob row: %v", err)
		}
		blobs = append(blobs, blob)
		return nil
	})
	return blobs, err
}
