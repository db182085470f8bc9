package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
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

// setupContentRepo creates a temporary git repository holding the given
// files (paths relative to the repository root) in one initial commit.
// The default branch is renamed to main so configurations can rely on it.
func setupContentRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	writeContentTree(t, tmpDir, files)

	repo, err := gogit.PlainInit(tmpDir, false)
	require.NoError(t, err, "failed to initialize git repo")

	w, err := repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	err = w.AddGlob(".")
	require.NoError(t, err, "failed to add files to git")

	_, err = w.Commit("Initial content", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to create initial commit")

	// go-git names the default branch after the host git configuration, so
	// rename to main for a stable clone target.
	headRef, err := repo.Head()
	require.NoError(t, err, "failed to get HEAD")

	if headRef.Name().Short() != "main" {
		err = w.Checkout(&gogit.CheckoutOptions{
			Branch: "refs/heads/main",
			Create: true,
		})
		require.NoError(t, err, "failed to create main branch")
		_ = repo.Storer.RemoveReference(headRef.Name())
	}

	return tmpDir
}

// writeContentTree materializes the file map under root.
func writeContentTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// newSiteConfig returns a configuration with freshly written templates and a
// temporary output directory. The caller sets the source.
func newSiteConfig(t *testing.T) *config.Config {
	t.Helper()

	tplDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "page.html"), []byte(pageTemplate), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "home.html"), []byte(homeTemplate), 0o644))

	cfg := config.Default()
	cfg.Templates.Dir = tplDir
	cfg.Templates.Page = filepath.Join(tplDir, "page.html")
	cfg.Templates.Home = filepath.Join(tplDir, "home.html")
	cfg.Output.Directory = filepath.Join(t.TempDir(), "site")
	return cfg
}

// readOutputFile reads one file from the generated site.
func readOutputFile(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	// #nosec G304 -- test utility reading from test output directory
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
