package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/git"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/workspace"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Repo            string `short:"r" help:"Git repository URL holding the content tree" xor:"src"`
	Source          string `short:"s" help:"Local content tree, used instead of cloning" xor:"src"`
	Output          string `short:"o" help:"Output directory for the generated site"`
	Branch          string `help:"Branch to clone; the remote HEAD when empty"`
	Depth           int    `help:"Shallow clone depth; 0 clones full history"`
	Workers         int    `help:"Parallel render workers; 0 uses all CPUs"`
	StrictTemplates bool   `name:"strict-templates" help:"Fail instead of falling back when the page template is missing"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	b.apply(cfg)
	if err := validateSourceConfig(cfg); err != nil {
		return err
	}
	return RunBuild(context.Background(), cfg, metrics.NoopRecorder{})
}

// apply folds command-line flags over the loaded configuration. A source flag
// replaces both configured sources, keeping repository and local path
// mutually exclusive regardless of what the file says.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Repo != "" {
		cfg.Source.Repository = b.Repo
		cfg.Source.Path = ""
	}
	if b.Source != "" {
		cfg.Source.Path = b.Source
		cfg.Source.Repository = ""
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Branch != "" {
		cfg.Source.Branch = b.Branch
	}
	if b.Depth > 0 {
		cfg.Source.Depth = b.Depth
	}
	if b.Workers > 0 {
		cfg.Build.Workers = b.Workers
	}
	if b.StrictTemplates {
		cfg.Templates.Strict = true
	}
}

// validateSourceConfig rejects runs with no content source at all.
func validateSourceConfig(cfg *config.Config) error {
	if cfg.Source.Repository == "" && cfg.Source.Path == "" {
		return blderrors.ValidationFailed("source",
			"a repository URL (--repo) or a local content tree (--source) is required")
	}
	return nil
}

// RunBuild executes one complete build: source acquisition, pipeline run and
// summary output. The build and watch commands share it.
func RunBuild(ctx context.Context, cfg *config.Config, rec metrics.Recorder) error {
	src, cleanup, err := acquireSource(ctx, cfg, rec)
	if err != nil {
		return err
	}
	defer cleanup()

	generator := site.NewGenerator(cfg, src, cfg.Output.Directory).SetRecorder(rec)
	report, err := generator.Generate(ctx)
	if err != nil {
		var be *blderrors.BuildError
		if errors.As(err, &be) {
			return be
		}
		var se *site.StageError
		if errors.As(err, &se) {
			return blderrors.BuildFailed(string(se.Stage), err)
		}
		return blderrors.BuildFailed("", err)
	}
	if report.OutcomeT == site.OutcomeSkipped {
		// The pipeline already reported the reason; nothing was produced.
		return nil
	}

	fmt.Printf("Generated blog site in '%s' directory\n", cfg.Output.Directory)
	fmt.Printf("Found %d published blogs and %d total blogs\n",
		report.PublishedDocuments, report.TotalDocuments)
	return nil
}

// acquireSource materializes the content tree: a configured repository is
// cloned into a throwaway workspace, a local path is used in place. The
// returned cleanup is safe to call in every outcome.
func acquireSource(ctx context.Context, cfg *config.Config, rec metrics.Recorder) (site.Source, func(), error) {
	noop := func() {}

	if cfg.Source.Repository != "" {
		url := cfg.Source.Repository
		fmt.Printf("Cloning repository: %s\n", url)

		ws := workspace.NewManager("")
		if err := ws.Create(); err != nil {
			return site.Source{}, noop, blderrors.WorkspaceError("create", err)
		}
		cleanup := func() {
			if err := ws.Cleanup(); err != nil {
				slog.Warn("Failed to cleanup workspace", logfields.Error(err))
			}
		}

		start := time.Now()
		path, err := git.NewClient(ws.Path()).Clone(ctx, git.CloneSpec{
			URL:    url,
			Branch: cfg.Source.Branch,
			Depth:  cfg.Source.Depth,
		})
		name := git.RepoNameFromURL(url)
		rec.ObserveCloneDuration(name, time.Since(start), err == nil)
		rec.IncCloneResult(err == nil)
		if err != nil {
			cleanup()
			return site.Source{}, noop, classifyCloneFailure(url, err)
		}
		return site.Source{Dir: path, Label: url, Name: name}, cleanup, nil
	}

	path, err := filepath.Abs(cfg.Source.Path)
	if err != nil {
		path = cfg.Source.Path
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return site.Source{}, noop, blderrors.SourceNotFound(cfg.Source.Path)
	}
	return site.Source{Dir: path, Label: cfg.Source.Path, Name: filepath.Base(path)}, noop, nil
}

// classifyCloneFailure maps typed git errors onto CLI error categories.
func classifyCloneFailure(url string, err error) error {
	var authErr *git.AuthError
	if errors.As(err, &authErr) {
		return blderrors.CloneAuthError(url, err)
	}
	return blderrors.CloneError(url, err)
}
