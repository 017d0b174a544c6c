package thumbnail

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Load(ctx context.Context) ([]byte, error)    { return nil, errors.New("permission denied") }
func (failingStore) Save(ctx context.Context, data []byte) error { return errors.New("permission denied") }
func (failingStore) Remove(ctx context.Context) error            { return nil }
func (failingStore) String() string                              { return "failing" }

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := FileStore{Path: filepath.Join(t.TempDir(), "cache.txt")}

	c, err := Load(ctx, store, nil)
	require.NoError(t, err)
	assert.Empty(t, c.Entries())

	c.Set("A", "thumb1.png")
	require.NoError(t, c.Save(ctx))

	reloaded, err := Load(ctx, store, nil)
	require.NoError(t, err)
	uri, ok := reloaded.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "thumb1.png", uri)
}

func TestCache_UntouchedEntriesSurvive(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.txt")
	require.NoError(t, os.WriteFile(path, []byte("old1|a.png\nold2|b.png\n"), 0o644))
	store := FileStore{Path: path}

	c, err := Load(ctx, store, nil)
	require.NoError(t, err)
	c.Set("old2", "c.png")
	c.Set("new", "d.png")
	require.NoError(t, c.Save(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old1|a.png\nold2|c.png\nnew|d.png\n", string(data))
}

func TestCache_SaveSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.txt")
	require.NoError(t, os.WriteFile(path, []byte("A|a.png\n"), 0o644))

	c, err := Load(ctx, FileStore{Path: path}, nil)
	require.NoError(t, err)
	c.Set("A", "a.png")

	require.NoError(t, os.Remove(path))
	require.NoError(t, c.Save(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "unchanged cache must not be written")
}

func TestCache_MalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.txt")
	require.NoError(t, os.WriteFile(path, []byte("A|a.png\nthis line is broken\n"), 0o644))

	c, err := Load(ctx, FileStore{Path: path}, nil)
	require.NoError(t, err)
	assert.Empty(t, c.Entries())
}

func TestCache_StoreErrorFails(t *testing.T) {
	_, err := Load(context.Background(), failingStore{}, nil)
	assert.ErrorContains(t, err, "permission denied")
}

func TestCache_Forget(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.txt")
	require.NoError(t, os.WriteFile(path, []byte("A|a.png\nB|b.png\nC|c.png\n"), 0o644))

	c, err := Load(ctx, FileStore{Path: path}, nil)
	require.NoError(t, err)
	assert.True(t, c.Forget("B"))
	assert.False(t, c.Forget("missing"))
	require.NoError(t, c.Save(ctx))

	assert.Equal(t, []Entry{{"A", "a.png"}, {"C", "c.png"}}, c.Entries())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A|a.png\nC|c.png\n", string(data))
}

func TestFileStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := FileStore{Path: filepath.Join(t.TempDir(), "nested", "cache.txt")}
	require.NoError(t, store.Save(ctx, []byte("A|a.png\n")))
	require.NoError(t, store.Remove(ctx))
	require.NoError(t, store.Remove(ctx), "removing a missing file is fine")

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}
