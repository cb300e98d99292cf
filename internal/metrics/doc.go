// Package metrics provides build metrics for gallerybuilder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	b := build.New(cfg, tpl, codec, build.WithRecorder(metrics.NoopRecorder{}))
//
// When metrics.textfile is configured the CLI swaps in a PrometheusRecorder on a
// private registry and writes it in the node_exporter textfile format once the
// build finishes (see (*PrometheusRecorder).WriteTextfile).
package metrics
