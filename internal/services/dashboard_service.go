package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/dataprocessing"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/exporter"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/infrastructure"
	api "github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/api/v1"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// Dataset origins, used as metric and log attributes.
const (
	OriginFile   = "file"
	OriginUpload = "upload"
	OriginReload = "reload"
)

// KPISummary is the KPI block of the dashboard on its own.
type KPISummary struct {
	Rows    int               `json:"rows"`
	KPIs    domain.KPIs       `json:"kpis"`
	Display domain.KPIDisplay `json:"display"`
}

// DashboardService owns the session dataset and answers dashboard queries
// over it. The dataset is swapped atomically on load; queries work on the
// snapshot they started with.
type DashboardService struct {
	mu       sync.RWMutex
	dataset  *dataprocessing.Dataset
	defaults domain.FilterSpec

	loader   *dataprocessing.Loader
	exporter *exporter.SubsetExporter
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// NewDashboardService creates a dashboard service with no dataset loaded.
// metrics and subsetExporter may be nil.
func NewDashboardService(loader *dataprocessing.Loader, subsetExporter *exporter.SubsetExporter, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = dataprocessing.NewLoader(logger)
	}

	return &DashboardService{
		loader:   loader,
		exporter: subsetExporter,
		metrics:  metrics,
		tracer:   otel.Tracer("blinkit/services"),
		logger:   logger.With(slog.String("service", "dashboard")),
		now:      time.Now,
	}
}

// LoadFile replaces the dataset with the file at path. On failure the
// previous dataset stays in place.
func (s *DashboardService) LoadFile(ctx context.Context, path, origin string) (domain.DatasetInfo, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.load_file",
		trace.WithAttributes(attribute.String("dataset.path", path), attribute.String("dataset.origin", origin)))
	defer span.End()

	start := s.now()
	ds, err := s.loader.LoadFile(path)
	return s.install(ctx, span, ds, origin, start, err)
}

// LoadReader replaces the dataset with an uploaded file. name picks the
// format by its extension.
func (s *DashboardService) LoadReader(ctx context.Context, r io.Reader, name string) (domain.DatasetInfo, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.load_upload",
		trace.WithAttributes(attribute.String("dataset.name", name)))
	defer span.End()

	start := s.now()
	format, err := dataprocessing.FormatFromName(name)
	var ds *dataprocessing.Dataset
	if err == nil {
		ds, err = s.loader.LoadReader(r, name, format)
	}
	return s.install(ctx, span, ds, OriginUpload, start, err)
}

func (s *DashboardService) install(ctx context.Context, span trace.Span, ds *dataprocessing.Dataset, origin string, start time.Time, err error) (domain.DatasetInfo, error) {
	duration := s.now().Sub(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset load failed")
		infrastructure.RecordDatasetLoad(ctx, s.metrics, origin, 0, duration, err)
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "dataset load failed, keeping previous dataset",
			slog.String("origin", origin))
		return domain.DatasetInfo{}, err
	}

	s.SetDataset(ds)
	infrastructure.RecordDatasetLoad(ctx, s.metrics, origin, ds.Len(), duration, nil)

	tiers := dataprocessing.SumByLocationAndFatContent(ds.All())
	if missing := tiers.Err(); missing != nil {
		infrastructure.RecordMissingCategory(ctx, s.metrics, tiers.StrayCategories)
		s.logger.WarnContext(ctx, "fat content outside the canonical labels",
			slog.String("dataset_id", ds.ID()),
			slog.Any("values", tiers.StrayCategories))
	}

	info := ds.Info()
	span.SetAttributes(attribute.String("dataset.id", info.ID), attribute.Int("dataset.rows", info.Rows))
	s.logger.InfoContext(ctx, "dataset installed",
		slog.String("dataset_id", info.ID),
		slog.String("source", info.Source),
		slog.String("origin", origin),
		slog.Int("rows", info.Rows),
		slog.Duration("duration", duration))
	return info, nil
}

// SetDataset installs ds as the session dataset.
func (s *DashboardService) SetDataset(ds *dataprocessing.Dataset) {
	defaults := dataprocessing.DefaultFilterSpec(ds)

	s.mu.Lock()
	s.dataset = ds
	s.defaults = defaults
	s.mu.Unlock()
}

func (s *DashboardService) snapshot() (*dataprocessing.Dataset, domain.FilterSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, domain.FilterSpec{}, ErrNoDataset
	}
	return s.dataset, s.defaults, nil
}

// DatasetInfo describes the loaded dataset. The flag is false when none is loaded.
func (s *DashboardService) DatasetInfo() (domain.DatasetInfo, bool) {
	ds, _, err := s.snapshot()
	if err != nil {
		return domain.DatasetInfo{}, false
	}
	return ds.Info(), true
}

// Options returns the filter choices of the loaded dataset.
func (s *DashboardService) Options(ctx context.Context) (domain.FilterOptions, error) {
	ds, _, err := s.snapshot()
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return dataprocessing.Options(ds), nil
}

// DefaultFilter returns the select-everything filter of the loaded dataset.
func (s *DashboardService) DefaultFilter(ctx context.Context) (domain.FilterSpec, error) {
	_, defaults, err := s.snapshot()
	return defaults, err
}

// filter resolves req against the dataset defaults and applies it.
func (s *DashboardService) filter(ctx context.Context, view string, req api.FilterRequest) (*dataprocessing.Dataset, domain.FilterSpec, dataprocessing.Subset, error) {
	if !req.YearsOrdered() {
		return nil, domain.FilterSpec{}, dataprocessing.Subset{},
			fmt.Errorf("%w: year_min %d is after year_max %d", ErrInvalidFilter, *req.YearMin, *req.YearMax)
	}

	ds, defaults, err := s.snapshot()
	if err != nil {
		return nil, domain.FilterSpec{}, dataprocessing.Subset{}, err
	}

	spec := req.Resolve(defaults)
	subset := dataprocessing.Apply(ds, spec)

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("dashboard.view", view),
		attribute.String("dataset.id", ds.ID()),
		attribute.Int("filter.rows", subset.Len()),
	)
	if subset.Empty() {
		s.logger.DebugContext(ctx, "filter matched no rows",
			slog.String("view", view),
			slog.Any("filter", spec))
	}
	return ds, spec, subset, nil
}

// Dashboard computes the KPIs, tier table and every chart for req.
func (s *DashboardService) Dashboard(ctx context.Context, req api.FilterRequest) (domain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.compute")
	defer span.End()

	start := s.now()
	ds, spec, subset, err := s.filter(ctx, "dashboard", req)
	if err != nil {
		return domain.Dashboard{}, err
	}

	kpis := dataprocessing.ComputeKPIs(subset)
	tiers := dataprocessing.SumByLocationAndFatContent(subset)
	if len(tiers.StrayCategories) > 0 {
		infrastructure.AddSpanEvent(ctx, "dashboard.missing_category",
			attribute.StringSlice("values", tiers.StrayCategories))
	}

	dashboard := domain.Dashboard{
		DatasetID:   ds.ID(),
		Filter:      spec,
		Rows:        subset.Len(),
		KPIs:        kpis,
		Display:     exporter.FormatKPIs(kpis),
		Charts:      BuildCharts(subset, tiers),
		Tiers:       tiers,
		GeneratedAt: s.now().UTC(),
	}

	infrastructure.RecordDashboardQuery(ctx, s.metrics, "dashboard", subset.Len(), s.now().Sub(start))
	return dashboard, nil
}

// KPIs computes the headline figures for req.
func (s *DashboardService) KPIs(ctx context.Context, req api.FilterRequest) (KPISummary, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.kpis")
	defer span.End()

	start := s.now()
	_, _, subset, err := s.filter(ctx, "kpis", req)
	if err != nil {
		return KPISummary{}, err
	}

	kpis := dataprocessing.ComputeKPIs(subset)
	infrastructure.RecordDashboardQuery(ctx, s.metrics, "kpis", subset.Len(), s.now().Sub(start))
	return KPISummary{Rows: subset.Len(), KPIs: kpis, Display: exporter.FormatKPIs(kpis)}, nil
}

// Chart computes one named chart for req.
func (s *DashboardService) Chart(ctx context.Context, name string, req api.FilterRequest) (domain.Chart, error) {
	if !IsChart(name) {
		return domain.Chart{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.chart", trace.WithAttributes(attribute.String("chart", name)))
	defer span.End()

	start := s.now()
	_, _, subset, err := s.filter(ctx, "chart", req)
	if err != nil {
		return domain.Chart{}, err
	}

	chart, err := BuildChart(name, subset, nil)
	if err != nil {
		return domain.Chart{}, err
	}
	infrastructure.RecordDashboardQuery(ctx, s.metrics, "chart", subset.Len(), s.now().Sub(start))
	return chart, nil
}

// GroupSummary sums sales of the filtered rows by field.
func (s *DashboardService) GroupSummary(ctx context.Context, field string, req api.FilterRequest) (domain.GroupSummary, error) {
	groupField, err := domain.ParseGroupField(field)
	if err != nil {
		return domain.GroupSummary{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.group", trace.WithAttributes(attribute.String("field", field)))
	defer span.End()

	start := s.now()
	_, _, subset, err := s.filter(ctx, "group", req)
	if err != nil {
		return domain.GroupSummary{}, err
	}

	summary, err := dataprocessing.SumBy(subset, groupField)
	if err != nil {
		return domain.GroupSummary{}, err
	}
	infrastructure.RecordDashboardQuery(ctx, s.metrics, "group", subset.Len(), s.now().Sub(start))
	return summary, nil
}

// Export writes the rows matching req to w in the given format.
func (s *DashboardService) Export(ctx context.Context, req api.FilterRequest, format exporter.Format, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.export", trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()

	_, _, subset, err := s.filter(ctx, "export", req)
	if err != nil {
		return err
	}

	switch format {
	case exporter.FormatCSV:
		err = exporter.WriteSubsetCSV(w, subset, exporter.SubsetOptions{BOMPrefix: true})
	case exporter.FormatXLSX:
		err = exporter.WriteSubsetXLSX(w, subset)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("export %s: %w", format, err)
	}

	infrastructure.RecordExport(ctx, s.metrics, string(format))
	s.logger.InfoContext(ctx, "subset streamed",
		slog.String("format", string(format)),
		slog.Int("rows", subset.Len()))
	return nil
}

// SaveExport writes the rows matching req to the export directory and
// returns the file path.
func (s *DashboardService) SaveExport(ctx context.Context, req api.FilterRequest, format exporter.Format) (string, error) {
	if s.exporter == nil {
		return "", fmt.Errorf("%w: no export directory configured", ErrServiceUnavailable)
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.save_export", trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()

	_, _, subset, err := s.filter(ctx, "export", req)
	if err != nil {
		return "", err
	}

	path, err := s.exporter.Export(subset, format)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	infrastructure.RecordExport(ctx, s.metrics, string(format))
	return path, nil
}
