// Package storage keeps export archives in S3-compatible object storage.
package storage

import (
	"context"
	"io"
	"time"
)

// Object is one file to store under Folder. Metadata is attached to the
// object as user metadata.
type Object struct {
	Folder      string
	Name        string
	ContentType string
	Body        io.Reader
	Size        int64
	Metadata    map[string]string
}

// DownloadLink is a presigned GET for a stored object.
type DownloadLink struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"file_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStore is the object storage surface the exports module needs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	// Put stores obj and returns its key. Keys never collide.
	Put(ctx context.Context, bucket string, obj Object) (string, error)
	PresignGet(ctx context.Context, bucket, key string) (DownloadLink, error)
	// Validate rejects content types and sizes the store does not accept.
	Validate(obj Object) error
}

// Config is the MinIO connection configuration.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
