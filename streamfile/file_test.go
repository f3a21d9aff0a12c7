package streamfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReadAtAndSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello vgmstream"), 0o644))

	sf, err := OpenFile(path)
	require.NoError(t, err)
	defer sf.Close()

	assert.EqualValues(t, 15, sf.Size())

	buf := make([]byte, 5)
	n, err := sf.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "vgmst", string(buf))
}

func TestFileCloneIsIndependent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.bin")
	require.NoError(t, os.WriteFile(path, []byte("abcdefgh"), 0o644))

	sf, err := OpenFile(path)
	require.NoError(t, err)
	defer sf.Close()

	clone, err := sf.Clone()
	require.NoError(t, err)
	defer clone.Close()

	buf := make([]byte, 4)
	_, err = clone.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf))
}
