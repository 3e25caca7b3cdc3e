package http

import (
	"context"
	"io"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/exporter"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/services"
	api "github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/api/v1"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard queries the handlers need
type DashboardServiceInterface interface {
	Options(ctx context.Context) (domain.FilterOptions, error)
	DefaultFilter(ctx context.Context) (domain.FilterSpec, error)
	Dashboard(ctx context.Context, req api.FilterRequest) (domain.Dashboard, error)
	KPIs(ctx context.Context, req api.FilterRequest) (services.KPISummary, error)
	Chart(ctx context.Context, name string, req api.FilterRequest) (domain.Chart, error)
	GroupSummary(ctx context.Context, field string, req api.FilterRequest) (domain.GroupSummary, error)
	Export(ctx context.Context, req api.FilterRequest, format exporter.Format, w io.Writer) error
}

// DatasetServiceInterface defines dataset replacement and status
type DatasetServiceInterface interface {
	LoadReader(ctx context.Context, r io.Reader, name string) (domain.DatasetInfo, error)
	DatasetInfo() (domain.DatasetInfo, bool)
}
