// Package sink writes a run's utilisation result to its destinations.
//
//   - Writer prints the percentage as a single line to any io.Writer.
//   - TextFile replaces a file's contents with that same line (results.txt).
//   - PromFile publishes the result as Prometheus gauges in the text
//     exposition format, for node_exporter's textfile collector.
//
// File sinks write to a temporary file in the target directory and rename
// it into place, so readers never observe a half-written result.
package sink
