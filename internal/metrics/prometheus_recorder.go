package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration     *prom.HistogramVec
	buildDuration     prom.Histogram
	stageResults      *prom.CounterVec
	buildOutcomes     *prom.CounterVec
	cloneDuration     *prom.HistogramVec
	cloneResults      *prom.CounterVec
	documentsRendered prom.Counter
	assetsCopied      prom.Counter
	renderWorkers     prom.Gauge
}

// NewPrometheusRecorder constructs and registers the blogbuilder metrics on
// the given registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "blogbuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogbuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		cloneDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "blogbuilder",
			Name:      "clone_duration_seconds",
			Help:      "Duration of source repository clones",
			Buckets:   prom.DefBuckets,
		}, []string{"repo", "result"}),
		cloneResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "clone_results_total",
			Help:      "Clone results by success/failure",
		}, []string{"result"}),
		documentsRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "documents_rendered_total",
			Help:      "Documents rendered to HTML pages",
		}),
		assetsCopied: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "assets_copied_total",
			Help:      "Image assets copied into the site",
		}),
		renderWorkers: prom.NewGauge(prom.GaugeOpts{
			Namespace: "blogbuilder",
			Name:      "render_workers",
			Help:      "Render worker count of the last build",
		}),
	}

	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults,
		pr.buildOutcomes, pr.cloneDuration, pr.cloneResults,
		pr.documentsRendered, pr.assetsCopied, pr.renderWorkers)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcomes == nil {
		return
	}
	p.buildOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveCloneDuration(repo string, d time.Duration, success bool) {
	if p == nil || p.cloneDuration == nil {
		return
	}
	p.cloneDuration.WithLabelValues(repo, resultString(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCloneResult(success bool) {
	if p == nil || p.cloneResults == nil {
		return
	}
	p.cloneResults.WithLabelValues(resultString(success)).Inc()
}

func (p *PrometheusRecorder) AddDocumentsRendered(n int) {
	if p == nil || p.documentsRendered == nil {
		return
	}
	p.documentsRendered.Add(float64(n))
}

func (p *PrometheusRecorder) AddAssetsCopied(n int) {
	if p == nil || p.assetsCopied == nil {
		return
	}
	p.assetsCopied.Add(float64(n))
}

func (p *PrometheusRecorder) SetRenderWorkers(n int) {
	if p == nil || p.renderWorkers == nil {
		return
	}
	p.renderWorkers.Set(float64(n))
}

func resultString(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
