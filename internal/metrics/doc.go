// Package metrics provides the observability hooks of the build pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so the pipeline never checks for nil:
//
//	builder := build.NewBuilder(opts, runner)                        // no metrics
//	builder = builder.WithRecorder(metrics.NewPrometheusRecorder(reg)) // collect
//
// A CLI run is short-lived, so instead of serving an HTTP endpoint the
// collected registry is written once with WriteTextfile after the build.
package metrics
