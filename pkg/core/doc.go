// Copyright © 2018 One Concern

/*
Package core implements the journalfs engine.

A Service owns the VFS store and the storage backend. It:
  - ingests blobs, deduplicated on the sha256 of their content
  - applies signed updates, one author at a time, each in a single atomic transaction
  - derives article listings from the /articles subtree of a user's namespace

The VFS and the sequence counters are only ever mutated by ApplyUpdate.
*/
package core
