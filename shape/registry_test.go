package shape

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetByExtension(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		filename string
		want     string
	}{
		{"shape.ttl", MimeTurtle},
		{"SHAPE.TTL", MimeTurtle},
		{"profile.jsonld", MimeJSONLD},
		{"profile.json", MimeJSONLD},
		{"readme.md", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			l := r.GetByExtension(tt.filename)
			if tt.want == "" {
				assert.Nil(t, l)
				return
			}
			require.NotNil(t, l)
			assert.Equal(t, tt.want, l.MimeType())
		})
	}
}

func TestRegistry_CanLoadFallback(t *testing.T) {
	r := NewRegistry()
	assert.NotNil(t, r.GetByMimeType("application/json"))
	assert.NotNil(t, r.GetByMimeType("application/x-turtle"))
	assert.Equal(t, []string{MimeJSONLD, MimeTurtle}, r.ListMimeTypes())
}

func TestRegistry_LoadBytesUnknown(t *testing.T) {
	_, err := NewRegistry().LoadBytes("notes.md", []byte("# x"))
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "no loader for file type")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.ttl"))
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))

	good, err := os.ReadFile(filepath.Join("testdata", "purchaseorder.ttl"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ttl"), good, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "a.ttl"), good, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.ttl"), []byte("ex:S ex:p ,"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0644))

	results, err := LoadFiles(context.Background(), []string{
		filepath.Join(dir, "**", "*.ttl"),
		filepath.Join(dir, "*"),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(dir, "b.ttl"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "broken.ttl"), results[1].Path)
	assert.Equal(t, filepath.Join(nested, "a.ttl"), results[2].Path)

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Graph)
	assert.True(t, IsParseError(results[1].Err))
}

func TestLoadFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFiles(ctx, []string{filepath.Join("testdata", "*.ttl")})
	assert.ErrorIs(t, err, context.Canceled)
}
