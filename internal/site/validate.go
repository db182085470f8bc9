package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// skipReasonMissingContentDir is recorded when the source tree has no
// content directory and the build short-circuits without output.
const skipReasonMissingContentDir = "missing_content_dir"

// stageValidateSource resolves the content directory inside the source tree
// and prepares the staged output skeleton. A missing content directory is the
// soft no-op case: the run stops cleanly and produces no output.
func stageValidateSource(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	contentDir := filepath.Join(g.source.Dir, g.config.Source.ContentDir)

	info, err := os.Stat(contentDir)
	switch {
	case os.IsNotExist(err), err == nil && !info.IsDir():
		fmt.Printf("No '%s' directory found in repository\n", g.config.Source.ContentDir)
		bs.Report.SkipReason = skipReasonMissingContentDir
		return newSkipStageError(StageValidateSource,
			fmt.Errorf("content directory %s not found", contentDir))
	case err != nil:
		return newFatalStageError(StageValidateSource,
			fmt.Errorf("stat content directory %s: %w", contentDir, err))
	}

	bs.ContentDir = contentDir
	if err := g.createSiteSkeleton(); err != nil {
		return newFatalStageError(StageValidateSource, err)
	}
	slog.Debug("Validated content source", logfields.Path(contentDir))
	return nil
}
