package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeSkipped  BuildOutcome = "skipped"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount aggregates outcome counts for a stage.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Skipped  int
	Canceled int
}

// BuildReport captures high-level metrics about a site generation run.
type BuildReport struct {
	SchemaVersion      int
	BuildID            string
	Source             string // repository URL or local source directory
	Start              time.Time
	End                time.Time
	TotalDocuments     int
	PublishedDocuments int
	RenderedPages      int
	AssetsCopied       int
	AssetCollisions    int
	Errors             []error // fatal errors causing build abortion (at most one today)
	Warnings           []error // non-fatal issues (e.g., page template fallback)
	StageDurations     map[string]time.Duration
	StageErrorKinds    map[StageName]StageErrorKind
	StageCounts        map[StageName]StageCount
	Outcome            string       // string form for JSON consumers
	OutcomeT           BuildOutcome // typed mirror (source of truth)
	// SkipReason indicates why the pipeline was short-circuited (e.g.
	// "missing_content_dir"). Empty if the full pipeline ran.
	SkipReason string
	// PageTemplateSource records which page template was used: "file" or "embedded".
	PageTemplateSource string
}

func newBuildReport(buildID, source string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         buildID,
		Source:          source,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *BuildReport) finish() { r.End = time.Now() }

// bumpStageSuccess increments the success counter for a stage.
func (r *BuildReport) bumpStageSuccess(name StageName) {
	sc := r.StageCounts[name]
	sc.Success++
	r.StageCounts[name] = sc
}

// recordStageError classifies a stage error into the report's count, kind and
// error/warning collections.
func (r *BuildReport) recordStageError(se *StageError) {
	r.StageErrorKinds[se.Stage] = se.Kind
	sc := r.StageCounts[se.Stage]
	switch se.Kind {
	case StageErrorWarning:
		sc.Warning++
		r.Warnings = append(r.Warnings, se)
	case StageErrorSkip:
		sc.Skipped++
	case StageErrorCanceled:
		sc.Canceled++
		r.Errors = append(r.Errors, se)
	default:
		sc.Fatal++
		r.Errors = append(r.Errors, se)
	}
	r.StageCounts[se.Stage] = sc
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("documents=%d published=%d rendered=%d assets=%d collisions=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.TotalDocuments, r.PublishedDocuments, r.RenderedPages, r.AssetsCopied, r.AssetCollisions,
		dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// deriveOutcome sets the Outcome fields based on recorded errors/warnings.
func (r *BuildReport) deriveOutcome() {
	if r.SkipReason != "" {
		r.setOutcome(OutcomeSkipped)
		return
	}
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.setOutcome(OutcomeCanceled)
				return
			}
		}
		r.setOutcome(OutcomeFailed)
		return
	}
	if len(r.Warnings) > 0 {
		r.setOutcome(OutcomeWarning)
		return
	}
	r.setOutcome(OutcomeSuccess)
}

// setOutcome sets both typed and string forms.
func (r *BuildReport) setOutcome(o BuildOutcome) {
	r.OutcomeT = o
	r.Outcome = string(o)
}

// Persist writes the report atomically into the provided root directory
// (final output dir, not staging). It writes two files:
//
//	build-report.json  (machine readable)
//	build-report.txt   (human summary)
//
// Best effort; errors are returned for caller logging but do not change the
// build outcome.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
		r.deriveOutcome()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.sanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(root, "build-report.json")
	tmpJSON := jsonPath + ".tmp"
	if err := os.WriteFile(tmpJSON, jb, 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmpJSON, jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	summaryPath := filepath.Join(root, "build-report.txt")
	tmpTxt := summaryPath + ".tmp"
	if err := os.WriteFile(tmpTxt, []byte(r.Summary()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write temp report summary: %w", err)
	}
	if err := os.Rename(tmpTxt, summaryPath); err != nil {
		return fmt.Errorf("atomic rename summary: %w", err)
	}
	return nil
}

// sanitizedCopy returns a copy with error fields converted to strings and
// typed map keys flattened for JSON stability.
func (r *BuildReport) sanitizedCopy() *buildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	if r.StageDurations == nil {
		r.StageDurations = map[string]time.Duration{}
	}
	s := &buildReportSerializable{
		SchemaVersion:      r.SchemaVersion,
		BuildID:            r.BuildID,
		Source:             r.Source,
		Start:              r.Start,
		End:                r.End,
		TotalDocuments:     r.TotalDocuments,
		PublishedDocuments: r.PublishedDocuments,
		RenderedPages:      r.RenderedPages,
		AssetsCopied:       r.AssetsCopied,
		AssetCollisions:    r.AssetCollisions,
		Errors:             make([]string, len(r.Errors)),
		Warnings:           make([]string, len(r.Warnings)),
		StageDurations:     r.StageDurations,
		StageErrorKinds:    sek,
		StageCounts:        stageCounts,
		Outcome:            r.Outcome,
		SkipReason:         r.SkipReason,
		PageTemplateSource: r.PageTemplateSource,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// buildReportSerializable mirrors BuildReport but with string errors for JSON output.
type buildReportSerializable struct {
	SchemaVersion      int                      `json:"schema_version"`
	BuildID            string                   `json:"build_id"`
	Source             string                   `json:"source,omitempty"`
	Start              time.Time                `json:"start"`
	End                time.Time                `json:"end"`
	TotalDocuments     int                      `json:"total_documents"`
	PublishedDocuments int                      `json:"published_documents"`
	RenderedPages      int                      `json:"rendered_pages"`
	AssetsCopied       int                      `json:"assets_copied"`
	AssetCollisions    int                      `json:"asset_collisions"`
	Errors             []string                 `json:"errors"`
	Warnings           []string                 `json:"warnings"`
	StageDurations     map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds    map[string]string        `json:"stage_error_kinds"`
	StageCounts        map[string]StageCount    `json:"stage_counts"`
	Outcome            string                   `json:"outcome"`
	SkipReason         string                   `json:"skip_reason,omitempty"`
	PageTemplateSource string                   `json:"page_template_source,omitempty"`
}
