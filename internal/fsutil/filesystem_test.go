package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystemRoundTrip(t *testing.T) {
	m := NewMemoryFileSystem()

	assert.False(t, m.Exists("a/b.xml"))
	_, err := m.ReadFile("a/b.xml")
	assert.Error(t, err)

	require.NoError(t, m.WriteFile("a/b.xml", []byte("<ImageData/>"), 0644))
	assert.True(t, m.Exists("a/b.xml"))

	data, err := m.ReadFile("a/b.xml")
	require.NoError(t, err)
	assert.Equal(t, "<ImageData/>", string(data))
}

func TestMemoryFileSystemIsolatesBuffers(t *testing.T) {
	m := NewMemoryFileSystem()
	src := []byte("abc")
	require.NoError(t, m.WriteFile("f", src, 0644))
	src[0] = 'z'

	data, err := m.ReadFile("f")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data[0] = 'q'
	again, err := m.ReadFile("f")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryFileSystemMkdirAll(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.MkdirAll("x/y/z", 0755))
	assert.True(t, m.Exists("x"))
	assert.True(t, m.Exists("x/y"))
	assert.True(t, m.Exists("x/y/z"))
}

func TestOSFileSystem(t *testing.T) {
	var fs OSFileSystem
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.xml")

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fs.WriteFile(path, []byte("data"), os.FileMode(0644)))
	assert.True(t, fs.Exists(path))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}
