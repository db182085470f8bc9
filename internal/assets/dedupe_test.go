package assets

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestDedupe_CopiesRecognizedImagesOnly(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "images")
	writeFiles(t, src, map[string]string{
		"a.png":        "png-bytes",
		"nested/b.JPG": "jpg-bytes",
		"c.svg":        "svg-bytes",
		"notes.md":     "not an asset",
		"data.csv":     "not an asset",
	})

	result, err := Dedupe(src, dst)
	require.NoError(t, err)

	require.Equal(t, 3, result.Copied)
	require.Zero(t, result.Collisions)
	require.Len(t, result.Renames, 3)
	require.Equal(t, "a.png", result.Renames["a.png"])
	require.Equal(t, "b.JPG", result.Renames["b.JPG"])
	require.FileExists(t, filepath.Join(dst, "a.png"))
	require.FileExists(t, filepath.Join(dst, "b.JPG"))
	require.FileExists(t, filepath.Join(dst, "c.svg"))
	require.NoFileExists(t, filepath.Join(dst, "notes.md"))
}

func TestDedupe_CollisionsNeverOverwrite(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "images")
	writeFiles(t, src, map[string]string{
		"one/a.png":   "first",
		"three/a.png": "second",
		"two/a.png":   "third",
	})

	result, err := Dedupe(src, dst)
	require.NoError(t, err)
	require.Equal(t, 3, result.Copied)
	require.Equal(t, 2, result.Collisions)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	require.Equal(t, []string{"a.png", "a_1.png", "a_2.png"}, names)

	// First occurrence in lexical walk order owns the map entry and the
	// unsuffixed copy.
	require.Equal(t, "a.png", result.Renames["a.png"])
	first, err := os.ReadFile(filepath.Join(dst, "a.png"))
	require.NoError(t, err)
	require.Equal(t, "first", string(first))

	seen := map[string]bool{}
	for _, assigned := range result.Renames {
		require.False(t, seen[assigned], "assigned name %q duplicated", assigned)
		seen[assigned] = true
	}
}

func TestDedupe_EmptyTreeStillCreatesDestDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "images")

	result, err := Dedupe(src, dst)
	require.NoError(t, err)
	require.Empty(t, result.Renames)
	require.Zero(t, result.Copied)
	require.DirExists(t, dst)
}

func TestDedupe_SkipsHiddenEntries(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "images")
	writeFiles(t, src, map[string]string{
		".hidden.png":    "x",
		".cache/img.png": "x",
		"kept.png":       "x",
	})

	result, err := Dedupe(src, dst)
	require.NoError(t, err)
	require.Equal(t, 1, result.Copied)
	require.Equal(t, "kept.png", result.Renames["kept.png"])
}

func TestIsImage(t *testing.T) {
	require.True(t, IsImage("photo.png"))
	require.True(t, IsImage("PHOTO.PNG"))
	require.True(t, IsImage("icon.Ico"))
	require.False(t, IsImage("doc.pdf"))
	require.False(t, IsImage("noext"))
}
