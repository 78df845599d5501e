// Package storage holds the key/value document storage used for pages and branding settings.
// Keys are slash separated (e.g. "pages/about.json") and never come straight from user input:
// callers validate identifiers before composing a key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cmsapi/internal/config"
)

// ErrNotFound is returned by Get and Delete when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for writing objects.
// Size should be the exact number of bytes if known, or -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is implemented by the local filesystem and S3-compatible backends.
// Writes fully replace any previous object under the same key; no locking is performed.
type Storage interface {
	// Put writes an object under the given key, creating intermediate directories/prefixes as needed.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key, returning ErrNotFound if it does not exist.
	Delete(ctx context.Context, key string) error
}

// New picks the backend named by cfg.Driver: "filesystem" (rooted at cfg.DataDir) or "minio".
func New(cfg config.StorageConfig, minioCfg config.MinIOConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "filesystem":
		if cfg.DataDir == "" {
			return nil, errors.New("storage: DATA_DIR is required for the filesystem driver")
		}
		return NewFilesystem(cfg.DataDir), nil
	case "minio":
		return NewMinIO(minioCfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
