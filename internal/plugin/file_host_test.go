package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figma-insights-api/internal/adapters/storage"
	"figma-insights-api/internal/models"
)

func seededStore(t *testing.T) *storage.MemoryFileStorage {
	t.Helper()
	store := storage.NewMemoryFileStorage()
	ctx := context.Background()
	require.NoError(t, store.Store(ctx, "screens/Login.png", []byte("login"), &storage.StoreOptions{
		Metadata: map[string]string{"name": "Login screen"},
	}))
	require.NoError(t, store.Store(ctx, "screens/Home.png", []byte("home"), nil))
	require.NoError(t, store.Store(ctx, "notes.txt", []byte("hi"), nil))
	return store
}

func TestFileHost_Selection(t *testing.T) {
	ctx := context.Background()
	host := NewFileHost(seededStore(t), "screens/Login.png")

	nodes, err := host.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Node{{ID: "screens/Login.png", Name: "Login screen", Type: NodeTypeFrame}}, nodes)

	host.Select("screens/Home.png", "notes.txt")
	nodes, err = host.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Node{
		{ID: "screens/Home.png", Name: "Home", Type: NodeTypeFrame},
		{ID: "notes.txt", Name: "notes", Type: "TXT"},
	}, nodes)

	host.Select("missing.png")
	_, err = host.Selection(ctx)
	assert.True(t, storage.IsNotFound(err))
}

func TestFileHost_SelectAll(t *testing.T) {
	nodes, err := NewFileHost(seededStore(t)).Selection(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestFileHost_ExportPNG(t *testing.T) {
	ctx := context.Background()
	host := NewFileHost(seededStore(t))

	data, err := host.ExportPNG(ctx, Node{ID: "screens/Home.png", Type: NodeTypeFrame}, ExportScale)
	require.NoError(t, err)
	assert.Equal(t, "home", string(data))

	_, err = host.ExportPNG(ctx, Node{ID: "notes.txt", Type: "TXT"}, ExportScale)
	assert.Error(t, err)

	_, err = host.ExportPNG(ctx, Node{ID: "screens/Home.png", Type: NodeTypeFrame}, 2)
	assert.Error(t, err)
}

func TestFileHost_SaveGenerated(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	host := NewFileHost(store)
	node := Node{ID: "screens/Home.png", Name: "Home", Type: NodeTypeFrame}

	key, err := host.SaveGenerated(ctx, node, []byte("generated"), "redesign")
	require.NoError(t, err)
	assert.Equal(t, "screens/Home.generated.png", key)

	meta, err := store.GetMetadata(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "screens/Home.png", meta.Metadata["source"])
	assert.Equal(t, "redesign", meta.Metadata["prompt"])

	// Generated images are not part of the implicit selection
	nodes, err := host.Selection(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestFileHost_WithController(t *testing.T) {
	ui := &RecordingUI{}
	c := NewController(NewFileHost(seededStore(t), "notes.txt"), ui, &fakeAnalyzer{})

	require.NoError(t, c.HandleMessage(context.Background(), models.PluginMessage{Type: models.MessageRequestImageData}))

	msg, _ := ui.Last()
	assert.Equal(t, models.AnalysisErrorMessage(MsgSelectExactlyOneFrame), msg)
}
