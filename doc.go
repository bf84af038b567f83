/*
Package journalfs maintains per-user virtual file systems built by replaying signed updates.

Users publish sequenced batches of actions (register, create a directory, bind a file to a blob),
signed with their ed25519 key. Blob contents are deduplicated by their SHA-256 digest and kept in
a content-addressed storage network. Articles are JSON documents published under /articles/<slug>.

The journalfs command serves the HTTP API and provides maintenance tools: see cmd/journalfs.
*/
package journalfs
