package storage

import (
	"fmt"
	"strings"
)

// StorageType names a FileStorage implementation
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeMemory StorageType = "memory"
)

// DefaultBasePath is used by local storage when no base path is configured
const DefaultBasePath = "./frames"

// NewFileStorage creates the FileStorage described by config
func NewFileStorage(config *StorageConfig) (FileStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	switch StorageType(strings.ToLower(config.Type)) {
	case StorageTypeLocal, "":
		basePath := config.BasePath
		if basePath == "" {
			basePath = DefaultBasePath
		}
		storage, err := NewLocalFileStorage(basePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		return storage, nil
	case StorageTypeMemory:
		return NewMemoryFileStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}
