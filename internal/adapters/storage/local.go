package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// metadataSuffix marks the sidecar file holding a file's custom metadata
	metadataSuffix = ".meta.json"
	tempSuffix     = ".tmp"
)

// LocalFileStorage implements FileStorage on a directory tree
type LocalFileStorage struct {
	basePath string
}

// sidecar is the on-disk form of a file's metadata
type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewLocalFileStorage creates the base directory if needed and returns a storage rooted there
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err)
	}

	return &LocalFileStorage{basePath: absPath}, nil
}

// BasePath returns the absolute root directory
func (l *LocalFileStorage) BasePath() string {
	return l.basePath
}

// Store implements FileStorage.Store
func (l *LocalFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err)
	}

	filePath := l.filePath(key)

	if opts != nil && !opts.Overwrite {
		if _, err := os.Stat(filePath); err == nil {
			return NewStorageError("Store", key, ErrFileAlreadyExists)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return NewStorageError("Store", key, err)
	}

	// Write to a temp file and rename so readers never see a partial image
	tempPath := filePath + tempSuffix
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return NewStorageError("Store", key, err)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return NewStorageError("Store", key, err)
	}

	meta := sidecar{}
	if opts != nil {
		meta.ContentType = opts.ContentType
		meta.Metadata = opts.Metadata
	}
	if meta.ContentType == "" && len(meta.Metadata) == 0 {
		_ = os.Remove(filePath + metadataSuffix)
		return nil
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return NewStorageError("Store", key, err)
	}
	if err := os.WriteFile(filePath+metadataSuffix, raw, 0644); err != nil {
		return NewStorageError("Store", key, err)
	}

	return nil
}

// Retrieve implements FileStorage.Retrieve
func (l *LocalFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err)
	}

	data, err := os.ReadFile(l.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageError("Retrieve", key, ErrFileNotFound)
		}
		return nil, NewStorageError("Retrieve", key, err)
	}

	return data, nil
}

// Exists implements FileStorage.Exists
func (l *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err)
	}

	_, err := os.Stat(l.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, NewStorageError("Exists", key, err)
	}

	return true, nil
}

// GetMetadata implements FileStorage.GetMetadata
func (l *LocalFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("GetMetadata", key, err)
	}

	info, err := os.Stat(l.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageError("GetMetadata", key, ErrFileNotFound)
		}
		return nil, NewStorageError("GetMetadata", key, err)
	}
	if info.IsDir() {
		return nil, NewStorageError("GetMetadata", key, ErrFileNotFound)
	}

	return l.describe(key, info), nil
}

// List implements FileStorage.List
func (l *LocalFileStorage) List(ctx context.Context, opts *ListOptions) (*ListResult, error) {
	if opts == nil {
		opts = &ListOptions{}
	}

	var files []FileMetadata
	err := filepath.WalkDir(l.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metadataSuffix) || strings.HasSuffix(path, tempSuffix) {
			return nil
		}

		relPath, err := filepath.Rel(l.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(relPath)

		if !strings.HasPrefix(key, opts.Prefix) || !strings.HasSuffix(key, opts.Suffix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, *l.describe(key, info))
		return nil
	})
	if err != nil {
		return nil, NewStorageError("List", "", err)
	}

	return paginate(files, opts.MaxResults), nil
}

// Close implements FileStorage.Close
func (l *LocalFileStorage) Close() error {
	return nil
}

func (l *LocalFileStorage) describe(key string, info fs.FileInfo) *FileMetadata {
	meta := &FileMetadata{
		Key:          key,
		Size:         info.Size(),
		ContentType:  contentTypeFor(key, ""),
		LastModified: info.ModTime(),
	}

	raw, err := os.ReadFile(l.filePath(key) + metadataSuffix)
	if err != nil {
		return meta
	}
	var sc sidecar
	if err := json.Unmarshal(raw, &sc); err != nil {
		return meta
	}
	if sc.ContentType != "" {
		meta.ContentType = sc.ContentType
	}
	meta.Metadata = sc.Metadata
	return meta
}

func (l *LocalFileStorage) filePath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}

	// Prevent directory traversal
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return ErrInvalidKey
		}
	}

	if strings.HasSuffix(key, metadataSuffix) || strings.HasSuffix(key, tempSuffix) {
		return ErrInvalidKey
	}

	return nil
}

// contentTypeFor returns explicit when set, otherwise a type derived from the key's extension
func contentTypeFor(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// paginate sorts files by key and truncates to maxResults when positive
func paginate(files []FileMetadata, maxResults int) *ListResult {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Key < files[j].Key
	})

	result := &ListResult{Files: files}
	if maxResults > 0 && len(files) > maxResults {
		result.Files = files[:maxResults]
		result.IsTruncated = true
	}
	if result.Files == nil {
		result.Files = []FileMetadata{}
	}
	return result
}
