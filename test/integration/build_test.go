package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/cmd/blogbuilder/commands"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

const welcomePost = `---
title: Welcome Aboard
date: 2025-04-01
status: published
author: Pat
---
# Welcome

Opening paragraph of the welcome post with ![logo](logo.png) inline.
`

const draftPost = `---
title: Rough Notes
date: 2025-04-02
---
Unfinished thoughts, not ready for the home page.
`

func TestBuildFromClonedRepository(t *testing.T) {
	repoPath := setupContentRepo(t, map[string]string{
		"blogs/welcome.md":      welcomePost,
		"blogs/notes.md":        draftPost,
		"blogs/assets/logo.png": "png-bytes",
		"README.md":             "# Content repository\n",
	})

	cfg := newSiteConfig(t)
	cfg.Source.Repository = repoPath
	cfg.Source.Branch = "main"

	require.NoError(t, commands.RunBuild(context.Background(), cfg, metrics.NoopRecorder{}))

	page := readOutputFile(t, cfg, "published/welcome.html")
	require.Contains(t, page, "Welcome Aboard")
	require.Contains(t, page, "/images/logo.png")
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "images", "logo.png"))
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "draft", "notes.html"))

	index := readOutputFile(t, cfg, "index.html")
	require.Contains(t, index, "Welcome Aboard")
	require.NotContains(t, index, "Rough Notes")

	var report struct {
		Outcome            string `json:"outcome"`
		TotalDocuments     int    `json:"total_documents"`
		PublishedDocuments int    `json:"published_documents"`
	}
	raw, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "build-report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Equal(t, "success", report.Outcome)
	require.Equal(t, 2, report.TotalDocuments)
	require.Equal(t, 1, report.PublishedDocuments)
}

func TestBuildFromLocalSourceTree(t *testing.T) {
	srcDir := t.TempDir()
	writeContentTree(t, srcDir, map[string]string{
		"blogs/welcome.md": welcomePost,
	})

	cfg := newSiteConfig(t)
	cfg.Source.Path = srcDir

	require.NoError(t, commands.RunBuild(context.Background(), cfg, metrics.NoopRecorder{}))

	require.FileExists(t, filepath.Join(cfg.Output.Directory, "published", "welcome.html"))
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "index.html"))
	// Local trees are used in place, never modified.
	require.FileExists(t, filepath.Join(srcDir, "blogs", "welcome.md"))
}

func TestBuildSkipsRepositoryWithoutContentDir(t *testing.T) {
	repoPath := setupContentRepo(t, map[string]string{
		"README.md": "# Nothing to publish here\n",
	})

	cfg := newSiteConfig(t)
	cfg.Source.Repository = repoPath

	require.NoError(t, commands.RunBuild(context.Background(), cfg, metrics.NoopRecorder{}))
	require.NoDirExists(t, cfg.Output.Directory)
}

func TestRebuildReplacesPreviousSite(t *testing.T) {
	srcDir := t.TempDir()
	writeContentTree(t, srcDir, map[string]string{
		"blogs/first.md": "---\ntitle: First\nstatus: published\n---\noriginal text\n",
	})

	cfg := newSiteConfig(t)
	cfg.Source.Path = srcDir
	require.NoError(t, commands.RunBuild(context.Background(), cfg, metrics.NoopRecorder{}))
	require.Contains(t, readOutputFile(t, cfg, "published/first.html"), "original text")

	require.NoError(t, os.Remove(filepath.Join(srcDir, "blogs", "first.md")))
	writeContentTree(t, srcDir, map[string]string{
		"blogs/second.md": "---\ntitle: Second\nstatus: published\n---\nreplacement text\n",
	})

	require.NoError(t, commands.RunBuild(context.Background(), cfg, metrics.NoopRecorder{}))
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "published", "second.html"))
	require.NoFileExists(t, filepath.Join(cfg.Output.Directory, "published", "first.html"))
	require.NoDirExists(t, cfg.Output.Directory+"_stage")
}

func TestDuplicateImageBasenamesKeepFirstCopy(t *testing.T) {
	srcDir := t.TempDir()
	writeContentTree(t, srcDir, map[string]string{
		"blogs/a/post-a.md": "---\ntitle: Post A\nstatus: published\n---\n![pic](pic.png)\n",
		"blogs/a/pic.png":   "first-picture",
		"blogs/b/post-b.md": "---\ntitle: Post B\nstatus: published\n---\n![pic](pic.png)\n",
		"blogs/b/pic.png":   "second-picture",
	})

	cfg := newSiteConfig(t)
	cfg.Source.Path = srcDir
	require.NoError(t, commands.RunBuild(context.Background(), cfg, metrics.NoopRecorder{}))

	// Both files are copied, the colliding one under a suffixed name. Lexical
	// walk order makes blogs/a/pic.png the winner for reference resolution.
	first, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "images", "pic.png"))
	require.NoError(t, err)
	require.Equal(t, "first-picture", string(first))
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "images", "pic_1.png"))

	require.Contains(t, readOutputFile(t, cfg, "published/post-a.html"), "/images/pic.png")
	require.Contains(t, readOutputFile(t, cfg, "published/post-b.html"), "/images/pic.png")

	var report struct {
		AssetsCopied    int `json:"assets_copied"`
		AssetCollisions int `json:"asset_collisions"`
	}
	raw, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "build-report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Equal(t, 2, report.AssetsCopied)
	require.Equal(t, 1, report.AssetCollisions)
}

func TestHomePageOrdersNewestFirst(t *testing.T) {
	srcDir := t.TempDir()
	writeContentTree(t, srcDir, map[string]string{
		"blogs/old.md": "---\ntitle: Older Entry\ndate: 2024-01-01\nstatus: published\n---\nold\n",
		"blogs/new.md": "---\ntitle: Newer Entry\ndate: 2025-06-01\nstatus: published\n---\nnew\n",
	})

	cfg := newSiteConfig(t)
	cfg.Source.Path = srcDir
	require.NoError(t, commands.RunBuild(context.Background(), cfg, metrics.NoopRecorder{}))

	index := readOutputFile(t, cfg, "index.html")
	newer := strings.Index(index, "Newer Entry")
	older := strings.Index(index, "Older Entry")
	require.GreaterOrEqual(t, newer, 0)
	require.GreaterOrEqual(t, older, 0)
	require.Less(t, newer, older, "newest post should lead the home page")
}
