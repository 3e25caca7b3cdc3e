// Package app wires the dashboard together and runs it.
//
// New builds every component from a config.Config: logging and
// OpenTelemetry, the dataset loader and exporter, the dashboard and health
// services, the HTTP handlers and middleware chain, and the dataset watcher
// when hot reload is enabled. The configured dataset is loaded once at
// startup; if that fails the server still starts and reports not ready on
// /api/health/ready until a reload or upload succeeds.
//
// Run serves HTTP and runs the watcher in one errgroup. Cancelling the
// context shuts the server down within Server.ShutdownTimeout and flushes
// telemetry.
//
//	a, err := app.New(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
package app
