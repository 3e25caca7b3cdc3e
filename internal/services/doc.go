// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the dataprocessing engine so that
// filtering, aggregation and export rules live in one place.
//
// # Available Services
//
//   - DashboardService: owns the session dataset and answers KPI, chart,
//     group and export queries over filtered subsets of it
//   - HealthService: liveness, readiness and version reporting
//
// # Dataset lifecycle
//
// DashboardService starts empty. LoadFile and LoadReader build a new
// dataprocessing.Dataset and swap it in under a write lock; a failed load
// leaves the previous dataset in place. Queries take a read-locked snapshot
// and then work without holding the lock:
//
//	svc := services.NewDashboardService(loader, subsetExporter, metrics, logger)
//	if _, err := svc.LoadFile(ctx, "blinkit_data.csv", services.OriginFile); err != nil {
//	    return err
//	}
//	dash, err := svc.Dashboard(ctx, api.FilterRequest{})
//
// # Error Handling
//
// Services return sentinel errors that handlers map onto HTTP statuses:
//
//   - ErrNoDataset when nothing is loaded yet
//   - ErrInvalidFilter for inverted year bounds or unknown group fields
//   - ErrUnknownChart and ErrUnsupportedFormat for bad path or query values
//
// Loader failures are passed through unchanged so the *AppError context
// (source, column, row) reaches the client.
package services
