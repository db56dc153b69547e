package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitepress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration       *prom.HistogramVec
	exportDuration      *prom.HistogramVec
	stageResults        *prom.CounterVec
	exportOutcome       *prom.CounterVec
	assetResults        *prom.CounterVec
	assetBytes          *prom.CounterVec
	optimizeConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual export stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		exportDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Total export duration by target",
			Buckets:   prom.DefBuckets,
		}, []string{"target"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		exportOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "export_outcomes_total",
			Help:      "Export outcomes by target and final status",
		}, []string{"target", "outcome"}),
		assetResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "asset_results_total",
			Help:      "Extracted asset optimization results",
		}, []string{"result"}),
		assetBytes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "asset_bytes_total",
			Help:      "Extracted asset bytes before and after optimization",
		}, []string{"kind"}),
		optimizeConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "optimize_concurrency",
			Help:      "Worker count used by the last asset optimization pass",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.exportDuration, pr.stageResults, pr.exportOutcome, pr.assetResults, pr.assetBytes, pr.optimizeConcurrency)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveExportDuration(target string, d time.Duration) {
	if p == nil {
		return
	}
	p.exportDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncExportOutcome(target, outcome string) {
	if p == nil {
		return
	}
	p.exportOutcome.WithLabelValues(target, outcome).Inc()
}

func (p *PrometheusRecorder) IncAssetResult(result AssetResult) {
	if p == nil {
		return
	}
	p.assetResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddAssetBytes(original, optimized int64) {
	if p == nil {
		return
	}
	p.assetBytes.WithLabelValues("original").Add(float64(original))
	p.assetBytes.WithLabelValues("optimized").Add(float64(optimized))
}

func (p *PrometheusRecorder) SetOptimizeConcurrency(n int) {
	if p == nil {
		return
	}
	p.optimizeConcurrency.Set(float64(n))
}
