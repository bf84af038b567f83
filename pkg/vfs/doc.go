// Copyright © 2018 One Concern

// Package vfs persists users' virtual file systems in a badger database.
//
// The tree is kept as a flat mapping from (owner, path) to node. A node's parent is found
// by a lookup on the parent path, and directory listings use a secondary index keyed by
// parent path and creation order.
//
// Besides nodes, the store keeps:
//   - registered users
//   - per-user sequence counters and the log of accepted updates
//   - blob rows, keyed by the sha256 of their content and indexed by reference
//
// Every mutation happens inside a Txn, obtained from Store.Update. A Txn either commits
// all its writes or none.
package vfs
