package storage

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryFileStorage is an in-memory FileStorage, used in tests and dry runs
type MemoryFileStorage struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
}

type memoryFile struct {
	data         []byte
	contentType  string
	metadata     map[string]string
	lastModified time.Time
}

// NewMemoryFileStorage creates an empty MemoryFileStorage
func NewMemoryFileStorage() *MemoryFileStorage {
	return &MemoryFileStorage{files: make(map[string]*memoryFile)}
}

// Store implements FileStorage.Store
func (m *MemoryFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if opts != nil && !opts.Overwrite {
		if _, exists := m.files[key]; exists {
			return NewStorageError("Store", key, ErrFileAlreadyExists)
		}
	}

	file := &memoryFile{
		data:         append([]byte(nil), data...),
		contentType:  contentTypeFor(key, ""),
		lastModified: time.Now(),
	}
	if opts != nil {
		file.contentType = contentTypeFor(key, opts.ContentType)
		if len(opts.Metadata) > 0 {
			file.metadata = make(map[string]string, len(opts.Metadata))
			for k, v := range opts.Metadata {
				file.metadata[k] = v
			}
		}
	}

	m.files[key] = file
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (m *MemoryFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[key]
	if !ok {
		return nil, NewStorageError("Retrieve", key, ErrFileNotFound)
	}
	return append([]byte(nil), file.data...), nil
}

// Exists implements FileStorage.Exists
func (m *MemoryFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[key]
	return ok, nil
}

// GetMetadata implements FileStorage.GetMetadata
func (m *MemoryFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[key]
	if !ok {
		return nil, NewStorageError("GetMetadata", key, ErrFileNotFound)
	}
	return file.describe(key), nil
}

// List implements FileStorage.List
func (m *MemoryFileStorage) List(ctx context.Context, opts *ListOptions) (*ListResult, error) {
	if opts == nil {
		opts = &ListOptions{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var files []FileMetadata
	for key, file := range m.files {
		if strings.HasPrefix(key, opts.Prefix) && strings.HasSuffix(key, opts.Suffix) {
			files = append(files, *file.describe(key))
		}
	}

	return paginate(files, opts.MaxResults), nil
}

// Close implements FileStorage.Close
func (m *MemoryFileStorage) Close() error {
	return nil
}

// Len returns the number of stored files
func (m *MemoryFileStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

func (f *memoryFile) describe(key string) *FileMetadata {
	meta := &FileMetadata{
		Key:          key,
		Size:         int64(len(f.data)),
		ContentType:  f.contentType,
		LastModified: f.lastModified,
	}
	if len(f.metadata) > 0 {
		meta.Metadata = make(map[string]string, len(f.metadata))
		for k, v := range f.metadata {
			meta.Metadata[k] = v
		}
	}
	return meta
}
