package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
)

const savedPage = `<!DOCTYPE html>
<html>
<head><title>Saved Page</title></head>
<body>
<main>
<h1>Saved Page</h1>
<p>Body of the saved page.</p>
</main>
</body>
</html>`

func TestImportCmd_SingleFile(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	input := filepath.Join(inDir, "saved page.html")
	require.NoError(t, os.WriteFile(input, []byte(savedPage), 0o644))

	cmd := &ImportCmd{Input: input, Output: outDir}
	require.NoError(t, cmd.Run(nil, nil))

	md, err := os.ReadFile(filepath.Join(outDir, "saved page.md"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(md), "---\n"))
	require.Contains(t, string(md), "Saved Page")
	require.Contains(t, string(md), "status: published")
	require.Contains(t, string(md), "Body of the saved page.")
}

func TestImportCmd_Directory(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "a.html"), []byte(savedPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "b.HTML"), []byte(savedPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(inDir, "a_files"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "a_files", "shot.png"), []byte("png"), 0o644))

	cmd := &ImportCmd{Input: inDir, Output: outDir}
	require.NoError(t, cmd.Run(nil, nil))

	require.FileExists(t, filepath.Join(outDir, "a.md"))
	require.FileExists(t, filepath.Join(outDir, "b.md"))
	require.FileExists(t, filepath.Join(outDir, "a_files", "shot.png"))
	require.NoFileExists(t, filepath.Join(outDir, "notes.md"))
}

func TestImportCmd_MissingInput(t *testing.T) {
	cmd := &ImportCmd{Input: filepath.Join(t.TempDir(), "absent.html"), Output: t.TempDir()}
	err := cmd.Run(nil, nil)
	require.Error(t, err)
	require.True(t, blderrors.IsCategory(err, blderrors.CategorySource))
}

func TestImportCmd_DirectoryWithoutHTML(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "readme.txt"), []byte("x"), 0o644))

	cmd := &ImportCmd{Input: inDir, Output: outDir}
	require.NoError(t, cmd.Run(nil, nil))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
