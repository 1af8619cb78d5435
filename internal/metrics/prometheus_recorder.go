package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	exportDuration *prom.HistogramVec
	exportResults  *prom.CounterVec
	exportRetries  *prom.CounterVec
	assetsMissing  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "bodot",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "bodot",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bodot",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bodot",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.exportDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "bodot",
			Name:      "export_duration_seconds",
			Help:      "Duration of individual preset exports",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"preset", "result"})
		pr.exportResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bodot",
			Name:      "export_results_total",
			Help:      "Export results by success/failure",
		}, []string{"result"})
		pr.exportRetries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bodot",
			Name:      "export_retries_total",
			Help:      "Export retries per preset",
		}, []string{"preset"})
		pr.assetsMissing = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bodot",
			Name:      "post_build_assets_missing_total",
			Help:      "Configured post-build assets that did not exist",
		}, []string{"kind"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
			pr.exportDuration, pr.exportResults, pr.exportRetries, pr.assetsMissing)
	})
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

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveExportDuration(preset string, d time.Duration, success bool) {
	if p == nil || p.exportDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.exportDuration.WithLabelValues(preset, res).Observe(d.Seconds())
	p.exportResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncExportRetry(preset string) {
	if p == nil || p.exportRetries == nil {
		return
	}
	p.exportRetries.WithLabelValues(preset).Inc()
}

func (p *PrometheusRecorder) IncAssetMissing(kind string) {
	if p == nil || p.assetsMissing == nil {
		return
	}
	p.assetsMissing.WithLabelValues(kind).Inc()
}
