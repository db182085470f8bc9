package site

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/assets"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// stageCopyAssets flattens every image in the content tree into the staged
// images/ directory and freezes the rename map used during rendering.
func stageCopyAssets(ctx context.Context, bs *BuildState) error {
	destDir := filepath.Join(bs.Generator.stageDir, "images")
	result, err := assets.Dedupe(bs.ContentDir, destDir)
	if err != nil {
		return newFatalStageError(StageCopyAssets, err)
	}

	bs.Renames = result.Renames
	bs.Report.AssetsCopied = result.Copied
	bs.Report.AssetCollisions = result.Collisions
	bs.Generator.recorder.AddAssetsCopied(result.Copied)
	slog.Debug("Copied assets",
		logfields.Count(result.Copied),
		slog.Int("collisions", result.Collisions))
	return nil
}
