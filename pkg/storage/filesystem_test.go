package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("licenses/biz.pdf", []byte("pdf-bytes"))
	require.NoError(t, err)
	require.Equal(t, "licenses/biz.pdf", rel)

	file, err := store.Open(rel)
	require.NoError(t, err)
	defer file.Close()

	content, err := os.ReadFile(store.Path(rel))
	require.NoError(t, err)
	require.Equal(t, "pdf-bytes", string(content))
}

func TestLocalStorageSaveStream(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.SaveStream("tax/id.txt", strings.NewReader("streamed"))
	require.NoError(t, err)

	content, err := os.ReadFile(store.Path(rel))
	require.NoError(t, err)
	require.Equal(t, "streamed", string(content))
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Delete("never/stored.bin"))
}

func TestLocalStorageCreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "docs")
	_, err := NewLocalStorage(base)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
