package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := b.Get(ctx, "secretary_schedules")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "secretary_schedules", []byte(`[{"id":"a"}]`)))
	v, ok, err := b.Get(ctx, "secretary_schedules")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"}]`, string(v))

	require.NoError(t, b.Set(ctx, "secretary_schedules", []byte(`[]`)))
	v, _, err = b.Get(ctx, "secretary_schedules")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v))

	assert.NoError(t, b.Close())
}

func TestMemoryBackend(t *testing.T) {
	testBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	testBackend(t, b)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "secretary_schedules.json", entries[0].Name())
}

func TestFileBackend_InvalidKey(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	_, _, err = b.Get(context.Background(), "../escape")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, b.Set(context.Background(), "a/b", nil), ErrInvalidKey)
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, b.Set(ctx, "k", value))
	value[0] = 'x'

	got, _, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
