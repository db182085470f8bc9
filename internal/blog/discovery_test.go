package blog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestDiscover_FindsMarkdownRecursively(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"first.md":          "---\ntitle: First\nstatus: published\n---\nBody.\n",
		"nested/second.md":  "---\ntitle: Second\n---\nBody.\n",
		"third.markdown":    "No header.\n",
		"notes.txt":         "not a document",
		"image.png":         "binary-ish",
		".hidden.md":        "skipped",
		".obsidian/four.md": "skipped via hidden dir",
	})

	corpus, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, corpus.Posts, 3)

	titles := make(map[string]bool)
	for _, p := range corpus.Posts {
		titles[p.Title] = true
	}
	require.True(t, titles["First"])
	require.True(t, titles["Second"])
	require.True(t, titles["Untitled"])
}

func TestDiscover_LexicalOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"c.md": "c",
		"a.md": "a",
		"b.md": "b",
	})

	corpus, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, corpus.Posts, 3)
	require.Equal(t, "a.md", corpus.Posts[0].RelPath)
	require.Equal(t, "b.md", corpus.Posts[1].RelPath)
	require.Equal(t, "c.md", corpus.Posts[2].RelPath)
}

func TestDiscover_NestedOutputIsFlat(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"deep/sub/post.md": "---\nstatus: published\n---\nBody.\n",
	})

	corpus, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, corpus.Posts, 1)
	require.Equal(t, "published/post.html", corpus.Posts[0].OutputRel)
}

func TestDiscover_MissingRoot_ReturnsError(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
