// Package git acquires source trees by cloning a remote repository into the
// run's workspace.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Client handles Git operations for one workspace.
type Client struct {
	workspaceDir string
}

// NewClient creates a Git client cloning into the specified workspace directory.
func NewClient(workspaceDir string) *Client {
	return &Client{workspaceDir: workspaceDir}
}

// CloneSpec describes one repository to clone.
type CloneSpec struct {
	URL    string
	Branch string // empty clones the remote HEAD
	Depth  int    // 0 clones full history
}

// Clone clones the repository into the workspace under its derived name and
// returns the checkout path. Clone progress is streamed to stderr so stdout
// stays reserved for build output.
func (c *Client) Clone(ctx context.Context, spec CloneSpec) (string, error) {
	name := RepoNameFromURL(spec.URL)
	repoPath := filepath.Join(c.workspaceDir, name)

	slog.Debug("Cloning repository",
		logfields.Repository(spec.URL),
		slog.String("branch", spec.Branch),
		logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing directory: %w", err)
	}

	cloneOptions := &gogit.CloneOptions{URL: spec.URL, Progress: os.Stderr}
	if spec.Branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + spec.Branch)
		cloneOptions.SingleBranch = true
	}
	if spec.Depth > 0 {
		cloneOptions.Depth = spec.Depth
	}

	repository, err := gogit.PlainCloneContext(ctx, repoPath, false, cloneOptions)
	if err != nil {
		return "", classifyCloneError(spec.URL, err)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned",
			logfields.Repository(spec.URL),
			slog.String("commit", ref.Hash().String()[:8]),
			logfields.Path(repoPath))
	} else {
		slog.Info("Repository cloned",
			logfields.Repository(spec.URL),
			logfields.Path(repoPath))
	}
	return repoPath, nil
}

// classifyCloneError wraps underlying go-git errors into typed permanent
// failures so upstream code classifies without string parsing.
func classifyCloneError(url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") ||
		strings.Contains(l, "invalid username or password") || strings.Contains(l, "authorization"):
		return &AuthError{Op: "clone", URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return &NotFoundError{Op: "clone", URL: url, Err: err}
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		return &UnsupportedProtocolError{Op: "clone", URL: url, Err: err}
	default:
		return fmt.Errorf("failed to clone repository %s: %w", url, err)
	}
}

// RepoNameFromURL derives a repository's short name from its URL: the last
// path segment with any trailing slash and .git suffix stripped.
func RepoNameFromURL(url string) string {
	trimmed := strings.TrimRight(url, "/")
	name := trimmed
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		name = trimmed[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "" {
		return "source"
	}
	return name
}
