package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/core/store"
	"github.com/dmitrymomot/mailkit/core/template"
)

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.json")
	s := store.NewFileStore(path)
	ctx := context.Background()

	first := template.New("first")
	first.Subject = "Hi {name}"
	first.Recipients = []template.Recipient{
		{Email: "ada@example.com", Args: map[string]string{"name": "Ada"}},
	}
	second := template.New("second")
	second.AttachmentPaths = []string{"/tmp/report.pdf"}

	require.NoError(t, s.Save(ctx, []*template.Template{first, second}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Order is preserved and content round-trips exactly.
	assert.Equal(t, first, loaded[0])
	assert.Equal(t, second, loaded[1])
}

func TestFileStore_MissingFile(t *testing.T) {
	t.Parallel()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.NewFileStore(path).Load(context.Background())
	require.ErrorIs(t, err, store.ErrLoadFailed)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.json")
	s := store.NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []*template.Template{template.New("one")}))
	require.NoError(t, s.Save(ctx, nil))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
