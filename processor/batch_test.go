package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessBatchMixedResults(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.rag")
	require.NoError(t, os.WriteFile(good, []byte(catalogDocument), 0o644))
	short := filepath.Join(dir, "short.rag")
	require.NoError(t, os.WriteFile(short, []byte("too short"), 0o644))
	bad := filepath.Join(dir, "bad.rag")
	require.NoError(t, os.WriteFile(bad, []byte("@strategy: nosuch/strategy\n\n"+plainCatalog), 0o644))
	missing := filepath.Join(dir, "missing.rag")

	p := New()
	batch := p.ProcessBatch(context.Background(), []string{good, short, bad, missing}, 2)

	require.Len(t, batch.Items, 4)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 2, batch.Failed)

	assert.NoError(t, batch.Items[0].Err)
	assert.Len(t, batch.Items[0].Result.Chunks, 3)

	// Quality failures still produce a result; the validation rides along.
	require.NoError(t, batch.Items[1].Err)
	assert.False(t, batch.Items[1].Result.Validation.Valid)

	assert.Error(t, batch.Items[2].Err)
	assert.Error(t, batch.Items[3].Err)
	assert.NotEmpty(t, batch.Items[3].Error)
}

func TestProcessBatchKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for _, name := range []string{"a.rag", "b.rag", "c.rag", "d.rag"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(catalogDocument), 0o644))
		paths = append(paths, path)
	}

	p := New()
	batch := p.ProcessBatch(context.Background(), paths, 4)

	require.Len(t, batch.Items, len(paths))
	for i, item := range batch.Items {
		assert.Equal(t, paths[i], item.Path)
		assert.Equal(t, paths[i], item.Result.SourceFile)
	}
	assert.Equal(t, 4, batch.Succeeded)
}

func TestProcessBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New()
	batch := p.ProcessBatch(ctx, []string{"x.rag", "y.rag"}, 1)

	require.Len(t, batch.Items, 2)
	assert.Zero(t, batch.Succeeded)
}
