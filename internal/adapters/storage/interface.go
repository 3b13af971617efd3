package storage

import (
	"context"
	"time"
)

// FileMetadata describes a stored file
type FileMetadata struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ListOptions filters a List call
type ListOptions struct {
	Prefix     string `json:"prefix,omitempty"`
	Suffix     string `json:"suffix,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// ListResult is the result of a List call, ordered by key
type ListResult struct {
	Files       []FileMetadata `json:"files"`
	IsTruncated bool           `json:"is_truncated"`
}

// StoreOptions controls how Store writes a file
type StoreOptions struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Overwrite   bool              `json:"overwrite,omitempty"`
}

// FileStorage is a flat key/value file store. Keys use forward slashes.
type FileStorage interface {
	// Store saves data under key. With nil opts an existing file is replaced.
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error

	// Retrieve returns the bytes stored under key
	Retrieve(ctx context.Context, key string) ([]byte, error)

	Exists(ctx context.Context, key string) (bool, error)

	// GetMetadata returns size, content type and the custom metadata stored with the file
	GetMetadata(ctx context.Context, key string) (*FileMetadata, error)

	List(ctx context.Context, opts *ListOptions) (*ListResult, error)

	Close() error
}

// StorageConfig selects and configures a FileStorage implementation
type StorageConfig struct {
	Type     string `json:"type" yaml:"type"`           // "local" or "memory"
	BasePath string `json:"base_path" yaml:"base_path"` // local storage root
}
