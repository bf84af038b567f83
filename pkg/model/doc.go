// Package model describes the base objects manipulated by journalfs.
//
// The object model for journalfs is composed of:
//
//  Users:
//    A user is identified by an address, the hex encoding of an ed25519 public key.
//    Each user owns one virtual file system namespace and one update sequence counter.
//
//  Updates:
//    An update is a signed, sequenced batch of actions submitted by a user.
//    Updates are applied in order, exactly once, fully or not at all.
//
//  Actions:
//    A single mutation of a user's namespace: add the user, add a directory, add a file.
//
//  Nodes:
//    The directories and files of a namespace. A file node is bound to a blob.
//
//  Blobs:
//    Immutable contents stored once per distinct sha256 in a remote content-addressed network.
//
//  Articles:
//    A read-side view over the /articles subtree of a namespace.
package model
