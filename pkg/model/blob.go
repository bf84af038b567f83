package model

import "time"

// Blob describes an immutable content stored in the remote network.
//
// SHA256 is the dedup key. Reference is the identifier exposed to clients to retrieve the content:
// it is derived from the storage backend's handle and is not the sha256.
type Blob struct {
	SHA256        string    `json:"sha256"`
	Reference     string    `json:"reference"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mime_type"`
	StorageHandle string    `json:"storage_handle"`
	CreatedAt     time.Time `json:"created_at"`
}

// BlobMetadata is the view of a blob returned to uploaders
type BlobMetadata struct {
	Reference string `json:"reference"`
	MimeType  string `json:"mime_type"`
	SHA256    string `json:"sha256"`
	Size      int64  `json:"size"`
}

// Metadata of a blob
func (b Blob) Metadata() BlobMetadata {
	return BlobMetadata{
		Reference: b.Reference,
		MimeType:  b.MimeType,
		SHA256:    b.SHA256,
		Size:      b.Size,
	}
}
