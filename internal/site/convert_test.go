package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertFile_DefaultsOutputNextToInput(t *testing.T) {
	cfg := templateConfig(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "my-notes.md")
	require.NoError(t, os.WriteFile(input, []byte("# Notes\n\nSome *content*.\n"), 0o644))

	out, err := ConvertFile(cfg, input, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "my-notes.html"), out)

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	// Title comes from the file stem, body from the rendered markdown.
	require.Contains(t, string(page), "my-notes")
	require.Contains(t, string(page), "<em>content</em>")
	require.Contains(t, string(page), "<h1")
}

func TestConvertFile_ExplicitOutputPath(t *testing.T) {
	cfg := templateConfig(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.md")
	target := filepath.Join(dir, "custom.html")
	require.NoError(t, os.WriteFile(input, []byte("hello\n"), 0o644))

	out, err := ConvertFile(cfg, input, target)
	require.NoError(t, err)
	require.Equal(t, target, out)
	require.FileExists(t, target)
}

func TestConvertFile_MissingInput(t *testing.T) {
	cfg := templateConfig(t)
	_, err := ConvertFile(cfg, filepath.Join(t.TempDir(), "absent.md"), "")
	require.Error(t, err)
}

func TestConvertFile_WorksWithoutHomeTemplate(t *testing.T) {
	cfg := templateConfig(t)
	require.NoError(t, os.Remove(cfg.Templates.Home))

	dir := t.TempDir()
	input := filepath.Join(dir, "solo.md")
	require.NoError(t, os.WriteFile(input, []byte("standalone\n"), 0o644))

	out, err := ConvertFile(cfg, input, "")
	require.NoError(t, err)
	require.FileExists(t, out)
}
