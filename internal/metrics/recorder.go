package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// AssetResult enumerates per-asset optimization outcomes.
type AssetResult string

const (
	AssetOptimized AssetResult = "optimized" // re-encoded output kept
	AssetKept      AssetResult = "kept"      // original kept (skipped, small or not smaller)
	AssetFailed    AssetResult = "failed"    // decode or encode failure; original kept
)

// Recorder defines observability hooks for export and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveExportDuration(target string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncExportOutcome(target, outcome string) // outcome: success|warning|failed|canceled
	IncAssetResult(result AssetResult)
	AddAssetBytes(original, optimized int64)
	SetOptimizeConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)  {}
func (NoopRecorder) ObserveExportDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)          {}
func (NoopRecorder) IncExportOutcome(string, string)             {}
func (NoopRecorder) IncAssetResult(AssetResult)                  {}
func (NoopRecorder) AddAssetBytes(int64, int64)                  {}
func (NoopRecorder) SetOptimizeConcurrency(int)                  {}
