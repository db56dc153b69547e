// Package metrics provides the observability hooks used by the export
// pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never need nil checks:
//
//	recorder := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Enabled {
//	    recorder = metrics.NewPrometheusRecorder(reg)
//	}
//
// PrometheusRecorder registers its collectors on the supplied registry and
// HTTPHandler serves that registry, which the preview server mounts at
// /metrics.
package metrics
