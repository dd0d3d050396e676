package bluele_cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hust-tianbo/go_bloom/bloom"
	"github.com/hust-tianbo/go_bloom/hash"
)

func writeFilter(t *testing.T, path string, elems ...string) {
	t.Helper()
	f, err := bloom.New(1000, 0.01, bloom.WithHash(hash.Murmur3))
	require.NoError(t, err)
	for _, e := range elems {
		_, err := f.Add([]byte(e))
		require.NoError(t, err)
	}
	require.NoError(t, f.Save(path))
}

func check(t *testing.T, l *bloom.Locked, elem string) bool {
	t.Helper()
	ok, err := l.Check([]byte(elem))
	require.NoError(t, err)
	return ok
}

func TestFilterCacheLoadsOnMiss(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bloom")
	writeFilter(t, a, "apple")

	c := NewFilterCache(WithFilterOptions(bloom.WithHash(hash.Murmur3)))
	l, err := c.Get(a)
	require.NoError(t, err)
	require.True(t, check(t, l, "apple"))
	require.Equal(t, 1, c.Len())

	again, err := c.Get(a)
	require.NoError(t, err)
	require.Same(t, l, again)

	_, err = c.Get(filepath.Join(dir, "missing.bloom"))
	require.ErrorIs(t, err, bloom.ErrIO)

	require.True(t, c.Remove(a))
	require.Equal(t, 0, c.Len())
}

func TestFilterCacheWriteBackOnEvict(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bloom")
	b := filepath.Join(dir, "b.bloom")
	writeFilter(t, a, "apple")
	writeFilter(t, b, "banana")

	c := NewFilterCacheWithCapacity(1, WithWriteBack(true), WithFilterOptions(bloom.WithHash(hash.Murmur3)))
	la, err := c.Get(a)
	require.NoError(t, err)
	_, err = la.Add([]byte("apricot"))
	require.NoError(t, err)

	// loading b evicts a
	lb, err := c.Get(b)
	require.NoError(t, err)
	require.True(t, check(t, lb, "banana"))
	require.Equal(t, 1, c.Len())

	f, err := bloom.Load(a, bloom.WithHash(hash.Murmur3))
	require.NoError(t, err)
	ok, err := f.Check([]byte("apricot"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFilterCacheFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.bloom")

	f, err := bloom.New(1000, 0.01)
	require.NoError(t, err)

	c := NewFilterCache(WithWriteBack(true))
	l, err := c.Add(path, f)
	require.NoError(t, err)
	_, err = l.Add([]byte("fresh"))
	require.NoError(t, err)

	require.NoError(t, c.Clear())
	require.Equal(t, 0, c.Len())

	loaded, err := c.Get(path)
	require.NoError(t, err)
	require.True(t, check(t, loaded, "fresh"))
}

func TestFilterCacheAddExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bloom")

	f, err := bloom.New(1000, 0.01)
	require.NoError(t, err)
	g, err := bloom.New(1000, 0.01)
	require.NoError(t, err)

	c := NewFilterCache(WithWriteBack(true))
	l, err := c.Add(path, f)
	require.NoError(t, err)
	_, err = l.Add([]byte("first"))
	require.NoError(t, err)

	_, err = c.Add(path, g)
	require.ErrorIs(t, err, ErrExists)

	got, err := c.Get(path)
	require.NoError(t, err)
	require.Same(t, l, got)
}

func TestFilterCacheWriteBackOnRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bloom")

	f, err := bloom.New(1000, 0.01)
	require.NoError(t, err)

	c := NewFilterCache(WithWriteBack(true))
	l, err := c.Add(path, f)
	require.NoError(t, err)
	_, err = l.Add([]byte("kept"))
	require.NoError(t, err)

	require.True(t, c.Remove(path))
	require.Equal(t, 0, c.Len())

	loaded, err := bloom.Load(path)
	require.NoError(t, err)
	ok, err := loaded.Check([]byte("kept"))
	require.NoError(t, err)
	require.True(t, ok)
}
