package plugin

import (
	"context"
	"fmt"
	"path"
	"strings"

	"figma-insights-api/internal/adapters/storage"
)

// generatedSuffix is appended to a frame's key when storing a generated image
const generatedSuffix = ".generated.png"

// FileHost is a Host backed by exported frames in a FileStorage.
// PNG files are frames; every other file is a node typed by its extension.
type FileHost struct {
	store    storage.FileStorage
	selected []string
}

// NewFileHost creates a host over store with the given keys selected.
// With no keys, every stored file is selected.
func NewFileHost(store storage.FileStorage, selected ...string) *FileHost {
	return &FileHost{store: store, selected: selected}
}

// Select replaces the current selection
func (h *FileHost) Select(keys ...string) {
	h.selected = keys
}

// Selection implements Host
func (h *FileHost) Selection(ctx context.Context) ([]Node, error) {
	keys := h.selected
	if len(keys) == 0 {
		result, err := h.store.List(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list frames: %w", err)
		}
		for _, file := range result.Files {
			if !strings.HasSuffix(file.Key, generatedSuffix) {
				keys = append(keys, file.Key)
			}
		}
	}

	nodes := make([]Node, 0, len(keys))
	for _, key := range keys {
		meta, err := h.store.GetMetadata(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read node %s: %w", key, err)
		}
		nodes = append(nodes, nodeFromMetadata(meta))
	}

	return nodes, nil
}

// ExportPNG implements Host. Stored frames are 1x exports, so only scale 1 is supported.
func (h *FileHost) ExportPNG(ctx context.Context, node Node, scale float64) ([]byte, error) {
	if node.Type != NodeTypeFrame {
		return nil, fmt.Errorf("node %s is a %s, not a %s", node.ID, node.Type, NodeTypeFrame)
	}
	if scale != ExportScale {
		return nil, fmt.Errorf("unsupported export scale %v", scale)
	}

	data, err := h.store.Retrieve(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", node.ID, err)
	}
	return data, nil
}

// SaveGenerated stores an image generated for node next to it and returns its key
func (h *FileHost) SaveGenerated(ctx context.Context, node Node, png []byte, prompt string) (string, error) {
	key := strings.TrimSuffix(node.ID, path.Ext(node.ID)) + generatedSuffix

	err := h.store.Store(ctx, key, png, &storage.StoreOptions{
		ContentType: exportMIMEType,
		Overwrite:   true,
		Metadata: map[string]string{
			"name":   node.Name + " (generated)",
			"source": node.ID,
			"prompt": prompt,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store generated image: %w", err)
	}
	return key, nil
}

// nodeFromMetadata names a node from its "name" metadata, falling back to the file name
func nodeFromMetadata(meta *storage.FileMetadata) Node {
	name := meta.Metadata["name"]
	if name == "" {
		base := path.Base(meta.Key)
		name = strings.TrimSuffix(base, path.Ext(base))
	}

	nodeType := strings.ToUpper(strings.TrimPrefix(path.Ext(meta.Key), "."))
	switch {
	case meta.ContentType == exportMIMEType:
		nodeType = NodeTypeFrame
	case nodeType == "":
		nodeType = "UNKNOWN"
	}

	return Node{ID: meta.Key, Name: name, Type: nodeType}
}
