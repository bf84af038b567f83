package model

import "time"

// NodeKind tells a directory from a file
type NodeKind string

// Node kinds
const (
	KindDirectory NodeKind = "directory"
	KindFile      NodeKind = "file"
)

// Node is a directory or a file in a user's namespace.
//
// Nodes are keyed by (Owner, Path): the tree is a flat mapping, and a node's parent is found by path.
type Node struct {
	Owner string   `json:"owner"`
	Path  string   `json:"path"`
	Kind  NodeKind `json:"kind"`

	// Order is the creation rank of the node within its owner's namespace
	Order uint64 `json:"order"`

	// file nodes only
	MimeType  string `json:"mimeType,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Hash      string `json:"hash,omitempty"`
	Reference string `json:"reference,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// IsDir tells if the node is a directory
func (n Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Name of the node, i.e. the last segment of its path
func (n Node) Name() string {
	return Base(n.Path)
}

// User is a registered author
type User struct {
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogEntry records an accepted update in the update log
type LogEntry struct {
	UserAddress string    `json:"userAddress"`
	ID          uint64    `json:"id"`
	Update      *Update   `json:"update"`
	AppliedAt   time.Time `json:"appliedAt"`
}
