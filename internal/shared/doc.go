// Package shared holds code used across the internal packages without
// belonging to any of them. Today that is only the testutil subpackage:
// the sample Blinkit dataset and CSV builders used by the loader, exporter,
// service and handler tests, and a buffered slog handler for asserting on
// log output.
package shared
