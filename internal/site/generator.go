// Package site turns a discovered blog corpus into a static website. The
// Generator owns the staged build pipeline: output is assembled in an
// isolated staging directory and atomically promoted on success, so a failed
// run never leaves a partially written site behind.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// Source describes the materialized content tree a build runs against.
type Source struct {
	// Dir is the local root of the content tree (clone workspace or a
	// directory passed on the command line).
	Dir string
	// Label identifies the source in logs and the build report: the
	// repository URL for cloned sources, the directory path otherwise.
	Label string
	// Name is the short source identity (repository or directory name)
	// used to derive the site title when none is configured.
	Name string
}

// Generator builds one static blog site from a content source.
type Generator struct {
	config    *config.Config
	source    Source
	outputDir string // final output dir
	stageDir  string // ephemeral staging dir for current build
	recorder  metrics.Recorder
}

// NewGenerator creates a site generator writing to outputDir.
func NewGenerator(cfg *config.Config, src Source, outputDir string) *Generator {
	return &Generator{
		config:    cfg,
		source:    src,
		outputDir: filepath.Clean(outputDir),
		recorder:  metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// OutputDir exposes the final output location (read-only usage by callers).
func (g *Generator) OutputDir() string { return g.outputDir }

// siteTitle resolves the site title: explicit configuration wins, otherwise
// it is derived from the source name.
func (g *Generator) siteTitle() string {
	if g.config.Site.Title != "" {
		return g.config.Site.Title
	}
	return DeriveSiteTitle(g.source.Name)
}

// Generate runs the full build pipeline and returns the build report.
//
// A source tree without a content directory is not an error: the pipeline
// stops after validation, no output is produced and the returned report has
// outcome "skipped" with a nil error. Fatal stage errors abort the build,
// discard staging and leave any previously published output untouched.
func (g *Generator) Generate(ctx context.Context) (*BuildReport, error) {
	buildID := uuid.NewString()
	report := newBuildReport(buildID, g.source.Label)
	slog.Info("Starting site generation",
		logfields.BuildID(buildID),
		logfields.Source(g.source.Label),
		logfields.Output(g.outputDir))

	// Templates are resolved before any filesystem mutation so configuration
	// problems surface without touching staging or previous output.
	tpl, err := loadTemplates(g.config, g.siteTitle())
	if err != nil {
		return nil, err
	}
	report.PageTemplateSource = tpl.PageSource
	if tpl.PageSource == templateSourceEmbedded {
		report.Warnings = append(report.Warnings,
			fmt.Errorf("page template %s missing, used embedded fallback", g.config.Templates.Page))
	}

	if err := g.beginStaging(); err != nil {
		return nil, err
	}

	bs := newBuildState(g, report)
	bs.Templates = tpl

	stages := NewPipeline().
		Add(StageValidateSource, stageValidateSource).
		Add(StageCopyAssets, stageCopyAssets).
		Add(StageClassifyDocuments, stageClassifyDocuments).
		Add(StageRenderDocuments, stageRenderDocuments).
		Add(StageComposeIndex, stageComposeIndex).
		Build()

	if err := runStages(ctx, bs, stages); err != nil {
		g.abortStaging()
		report.deriveOutcome()
		report.finish()
		g.recordBuildMetrics(report)
		var se *StageError
		if errors.As(err, &se) && se.Kind == StageErrorSkip {
			slog.Info("Site generation skipped", logfields.BuildID(buildID), "reason", report.SkipReason)
			return report, nil
		}
		return report, err
	}

	report.deriveOutcome()
	report.finish()
	if err := g.finalizeStaging(); err != nil {
		g.abortStaging()
		return report, fmt.Errorf("finalize staging: %w", err)
	}
	// Persist report (best effort) inside final output directory.
	if err := report.Persist(g.outputDir); err != nil {
		slog.Warn("Failed to persist build report", logfields.Error(err))
	}
	g.recordBuildMetrics(report)
	slog.Info("Site generation completed",
		logfields.BuildID(buildID),
		logfields.Output(g.outputDir),
		"summary", report.Summary())
	return report, nil
}

// recordBuildMetrics emits build-level observations once per run.
func (g *Generator) recordBuildMetrics(report *BuildReport) {
	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	g.recorder.IncBuildOutcome(string(report.OutcomeT))
}
