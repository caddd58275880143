package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(path, zipArchive(t, entries), 0644))
	return path
}

func TestExtractArchiveReturnsSortedTopLevelFolders(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"Zebra/z.lua":        "z",
		"Alpha/a.lua":        "a",
		"Alpha/sub/deep.lua": "d",
		"loose.txt":          "not in a folder",
	})

	dest := t.TempDir()
	folders, err := extractArchive(path, dest)
	require.NoError(t, err)

	// Top-level files do not contribute folder names
	assert.Equal(t, []string{"Alpha", "Zebra"}, folders)

	data, err := os.ReadFile(filepath.Join(dest, "Alpha", "sub", "deep.lua"))
	require.NoError(t, err)
	assert.Equal(t, "d", string(data))

	_, err = os.Stat(filepath.Join(dest, "loose.txt"))
	assert.NoError(t, err)
}

func TestExtractArchiveOverwritesExisting(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "Alpha"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "Alpha", "a.lua"), []byte("old"), 0644))

	path := writeArchive(t, map[string]string{"Alpha/a.lua": "new"})
	_, err := extractArchive(path, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "Alpha", "a.lua"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestExtractArchiveRejectsPathTraversal(t *testing.T) {
	path := writeArchive(t, map[string]string{"../escape.lua": "evil"})

	dest := t.TempDir()
	_, err := extractArchive(path, dest)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "escape.lua"))
	assert.True(t, os.IsNotExist(statErr))
}
