package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>{{TITLE}} - {{SITE_TITLE}}</title></head>
<body>
<nav>{{NAVIGATION}}</nav>
{{CONTENT}}
<footer>{{COPYRIGHT}}</footer>
</body>
</html>`

const homeTemplate = `<!DOCTYPE html>
<html>
<head><title>{{SITE_TITLE}}</title></head>
<body>
{{ARTICLES_CONTENT}}
<footer>{{COPYRIGHT}}</footer>
</body>
</html>`

// writeTemplates writes the two placeholder templates into a temp dir.
func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(pageTemplate), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.html"), []byte(homeTemplate), 0o644))
	return dir
}

// testConfig builds a config with temp templates and a temp output directory.
func testConfig(t *testing.T, srcDir string) *config.Config {
	t.Helper()
	tplDir := writeTemplates(t)
	cfg := config.Default()
	cfg.Source.Path = srcDir
	cfg.Templates.Dir = tplDir
	cfg.Templates.Page = filepath.Join(tplDir, "page.html")
	cfg.Templates.Home = filepath.Join(tplDir, "home.html")
	cfg.Output.Directory = filepath.Join(t.TempDir(), "site")
	return cfg
}

func newTestGenerator(cfg *config.Config, srcDir string) *Generator {
	src := Source{Dir: srcDir, Label: srcDir, Name: filepath.Base(srcDir)}
	return NewGenerator(cfg, src, cfg.Output.Directory)
}

func writeSourceFile(t *testing.T, srcDir, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(srcDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

const helloPost = `---
title: Hello World
date: 2025-03-14
status: published
author: Jane
---
# Greetings

Intro paragraph with ![diagram](diagram.png) inline.
`

func TestGenerate_EndToEnd(t *testing.T) {
	srcDir := t.TempDir()
	writeSourceFile(t, srcDir, "blogs/hello.md", []byte(helloPost))
	writeSourceFile(t, srcDir, "blogs/assets/diagram.png", []byte("not-a-real-png"))

	cfg := testConfig(t, srcDir)
	g := newTestGenerator(cfg, srcDir)

	report, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, report.OutcomeT)
	require.Equal(t, 1, report.TotalDocuments)
	require.Equal(t, 1, report.PublishedDocuments)
	require.Equal(t, 1, report.RenderedPages)
	require.Equal(t, 1, report.AssetsCopied)
	require.Equal(t, templateSourceFile, report.PageTemplateSource)

	page := readOutput(t, cfg, "published/hello.html")
	require.Contains(t, page, "Greetings")
	require.Contains(t, page, "Hello World")
	require.Contains(t, page, "By Jane")
	require.Contains(t, page, "March 14, 2025")
	require.Contains(t, page, `/images/diagram.png`)

	require.FileExists(t, filepath.Join(cfg.Output.Directory, "images", "diagram.png"))
	require.DirExists(t, filepath.Join(cfg.Output.Directory, "draft"))

	index := readOutput(t, cfg, "index.html")
	require.Contains(t, index, "Hello World")
	require.Contains(t, index, "published/hello.html")

	// Staging must be promoted, not left behind.
	require.NoDirExists(t, cfg.Output.Directory+"_stage")

	// The report is persisted in both formats inside the final output.
	var persisted struct {
		BuildID string `json:"build_id"`
		Outcome string `json:"outcome"`
	}
	raw, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "build-report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Equal(t, report.BuildID, persisted.BuildID)
	require.Equal(t, string(OutcomeSuccess), persisted.Outcome)
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "build-report.txt"))
}

func TestGenerate_MissingContentDir_SkipsWithoutOutput(t *testing.T) {
	srcDir := t.TempDir() // no blogs/ subdirectory
	cfg := testConfig(t, srcDir)
	g := newTestGenerator(cfg, srcDir)

	report, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, report.OutcomeT)
	require.Equal(t, skipReasonMissingContentDir, report.SkipReason)

	require.NoDirExists(t, cfg.Output.Directory)
	require.NoDirExists(t, cfg.Output.Directory+"_stage")
}

func TestGenerate_MissingHomeTemplate_IsConfigError(t *testing.T) {
	srcDir := t.TempDir()
	writeSourceFile(t, srcDir, "blogs/hello.md", []byte(helloPost))
	cfg := testConfig(t, srcDir)
	require.NoError(t, os.Remove(cfg.Templates.Home))

	report, err := newTestGenerator(cfg, srcDir).Generate(context.Background())
	require.Error(t, err)
	require.Nil(t, report)
	require.True(t, blderrors.IsCategory(err, blderrors.CategoryConfig))
	require.NoDirExists(t, cfg.Output.Directory)
}

func TestGenerate_PageTemplateFallback_WarnsAndRecords(t *testing.T) {
	srcDir := t.TempDir()
	writeSourceFile(t, srcDir, "blogs/hello.md", []byte(helloPost))
	cfg := testConfig(t, srcDir)
	require.NoError(t, os.Remove(cfg.Templates.Page))

	report, err := newTestGenerator(cfg, srcDir).Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, templateSourceEmbedded, report.PageTemplateSource)
	require.Len(t, report.Warnings, 1)
	require.Equal(t, OutcomeWarning, report.OutcomeT)

	page := readOutput(t, cfg, "published/hello.html")
	require.Contains(t, page, "Greetings")
}

func TestGenerate_StrictTemplates_FailOnMissingPage(t *testing.T) {
	srcDir := t.TempDir()
	writeSourceFile(t, srcDir, "blogs/hello.md", []byte(helloPost))
	cfg := testConfig(t, srcDir)
	cfg.Templates.Strict = true
	require.NoError(t, os.Remove(cfg.Templates.Page))

	_, err := newTestGenerator(cfg, srcDir).Generate(context.Background())
	require.Error(t, err)
	require.True(t, blderrors.IsCategory(err, blderrors.CategoryConfig))
}

func TestGenerate_DraftsExcludedFromIndex(t *testing.T) {
	srcDir := t.TempDir()
	writeSourceFile(t, srcDir, "blogs/pub.md", []byte("---\ntitle: Public Post\nstatus: published\n---\nvisible\n"))
	writeSourceFile(t, srcDir, "blogs/wip.md", []byte("---\ntitle: Secret Draft\n---\nhidden\n"))
	cfg := testConfig(t, srcDir)

	report, err := newTestGenerator(cfg, srcDir).Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.TotalDocuments)
	require.Equal(t, 1, report.PublishedDocuments)

	require.FileExists(t, filepath.Join(cfg.Output.Directory, "draft", "wip.html"))

	index := readOutput(t, cfg, "index.html")
	require.Contains(t, index, "Public Post")
	require.NotContains(t, index, "Secret Draft")
}

func TestGenerate_FailedRunKeepsPreviousOutput(t *testing.T) {
	srcDir := t.TempDir()
	writeSourceFile(t, srcDir, "blogs/hello.md", []byte("---\ntitle: V1\nstatus: published\n---\nversion one\n"))
	cfg := testConfig(t, srcDir)

	_, err := newTestGenerator(cfg, srcDir).Generate(context.Background())
	require.NoError(t, err)
	require.Contains(t, readOutput(t, cfg, "published/hello.html"), "version one")

	// Make the next run fail mid-pipeline: a dangling symlink with a .md name
	// triggers a document read failure.
	writeSourceFile(t, srcDir, "blogs/hello.md", []byte("---\ntitle: V2\nstatus: published\n---\nversion two\n"))
	require.NoError(t, os.Symlink(
		filepath.Join(srcDir, "nope.md"),
		filepath.Join(srcDir, "blogs", "broken.md")))

	report, err := newTestGenerator(cfg, srcDir).Generate(context.Background())
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, report.OutcomeT)

	// Previous output untouched, staging removed.
	require.Contains(t, readOutput(t, cfg, "published/hello.html"), "version one")
	require.NoDirExists(t, cfg.Output.Directory+"_stage")
}

func TestGenerate_CanceledContextAbortsRun(t *testing.T) {
	srcDir := t.TempDir()
	writeSourceFile(t, srcDir, "blogs/hello.md", []byte(helloPost))
	cfg := testConfig(t, srcDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestGenerator(cfg, srcDir).Generate(ctx)
	require.Error(t, err)
	require.Equal(t, OutcomeCanceled, report.OutcomeT)
	require.NoDirExists(t, cfg.Output.Directory)
}

func TestGenerate_WorkerCountDoesNotChangeOutput(t *testing.T) {
	srcDir := t.TempDir()
	for _, doc := range []struct{ rel, title, date string }{
		{"blogs/a.md", "Alpha", "2025-01-01"},
		{"blogs/b.md", "Beta", "2025-02-01"},
		{"blogs/nested/c.md", "Gamma", "2025-03-01"},
	} {
		writeSourceFile(t, srcDir, doc.rel,
			[]byte("---\ntitle: "+doc.title+"\ndate: "+doc.date+"\nstatus: published\n---\nbody of "+doc.title+"\n"))
	}

	render := func(workers int) (string, map[string]string) {
		cfg := testConfig(t, srcDir)
		cfg.Build.Workers = workers
		_, err := newTestGenerator(cfg, srcDir).Generate(context.Background())
		require.NoError(t, err)

		pages := map[string]string{}
		for _, rel := range []string{"index.html", "published/a.html", "published/b.html", "published/c.html"} {
			pages[rel] = readOutput(t, cfg, rel)
		}
		return cfg.Output.Directory, pages
	}

	_, serial := render(1)
	_, parallel := render(4)
	require.Equal(t, serial, parallel)
}

func TestSiteTitle_PrefersConfiguredTitle(t *testing.T) {
	cfg := config.Default()
	cfg.Site.Title = "Configured"
	g := NewGenerator(cfg, Source{Name: "my-blog"}, t.TempDir())
	require.Equal(t, "Configured", g.siteTitle())

	cfg2 := config.Default()
	g2 := NewGenerator(cfg2, Source{Name: "my-blog"}, t.TempDir())
	require.Equal(t, "My Blog", g2.siteTitle())
}
