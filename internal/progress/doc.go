// Package progress consumes scan events on a single goroutine.
//
// Tracker owns every counter and the ordered list of matches, Renderer
// implementations present live progress on the console, and MetricsRecorder
// exports the final counters through a Prometheus registry.
package progress
