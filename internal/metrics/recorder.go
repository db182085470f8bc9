// Package metrics provides observability hooks for build pipeline metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so one-shot builds carry no metrics overhead. The watch
// command swaps in a PrometheusRecorder and serves the registry over HTTP.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultSkipped  ResultLabel = "skipped"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for build and stage metrics.
// Implementations must tolerate nil receivers so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|skipped|canceled
	ObserveCloneDuration(repo string, d time.Duration, success bool)
	IncCloneResult(success bool)
	AddDocumentsRendered(n int)
	AddAssetsCopied(n int)
	SetRenderWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)               {}
func (NoopRecorder) IncStageResult(string, ResultLabel)               {}
func (NoopRecorder) IncBuildOutcome(string)                           {}
func (NoopRecorder) ObserveCloneDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncCloneResult(bool)                              {}
func (NoopRecorder) AddDocumentsRendered(int)                         {}
func (NoopRecorder) AddAssetsCopied(int)                              {}
func (NoopRecorder) SetRenderWorkers(int)                             {}
