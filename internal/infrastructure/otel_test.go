package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/config"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
)

func TestOTelInitialization(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *OTelConfig
		wantTracer  bool
		wantMetrics bool
		wantErr     bool
	}{
		{name: "defaults", cfg: nil, wantTracer: false, wantMetrics: true},
		{
			name:        "stdout tracing",
			cfg:         &OTelConfig{ServiceName: ServiceName, TraceExporter: "stdout", MetricExporter: "prometheus", SampleRatio: 1},
			wantTracer:  true,
			wantMetrics: true,
		},
		{
			name: "everything off",
			cfg:  &OTelConfig{ServiceName: ServiceName, TraceExporter: "none", MetricExporter: "none"},
		},
		{
			name:    "unknown trace exporter",
			cfg:     &OTelConfig{TraceExporter: "jaeger"},
			wantErr: true,
		},
		{
			name:    "unknown metric exporter",
			cfg:     &OTelConfig{TraceExporter: "none", MetricExporter: "statsd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			providers, err := InitializeOTel(tt.cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Equal(t, tt.wantTracer, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.MeterProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.PrometheusHTTP != nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{Environment: "test", TraceExporter: "stdout", SampleRatio: 0.5})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, 0.5, cfg.SampleRatio)
	assert.NotEmpty(t, cfg.ServiceVersion)
}

func TestTraceCorrelation(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(&OTelConfig{TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Len(t, traceID, 32)
	assert.Equal(t, traceID, GetTraceID(ctx), "span trace id is used when no explicit id is set")

	explicit := WithTraceID(ctx, "req-1")
	assert.Equal(t, "req-1", GetTraceID(explicit))

	RecordError(ctx, errors.New("boom"))
	AddSpanEvent(ctx, "dataset.loaded")
	assert.True(t, span.IsRecording())

	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestPrometheusEndpoint(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "prometheus"}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordDatasetLoad(ctx, metrics, "startup", 8523, 40*time.Millisecond, nil)
	RecordDatasetLoad(ctx, metrics, "upload", 0, time.Millisecond, errors.New("missing column"))
	RecordDashboardQuery(ctx, metrics, "dashboard", 0, time.Millisecond)
	RecordMissingCategory(ctx, metrics, []string{"Extra Fat"})
	RecordExport(ctx, metrics, "csv")

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	for _, name := range []string{
		"dataset_loads_total",
		"dataset_rows",
		"dashboard_filter_evaluations_total",
		"dashboard_empty_results_total",
		"dashboard_missing_category_total",
		"dashboard_exports_total",
		"system_errors_total",
	} {
		assert.Contains(t, text, name)
	}
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordDatasetLoad(ctx, nil, "startup", 1, time.Second, nil)
		RecordDashboardQuery(ctx, nil, "dashboard", 1, time.Second)
		RecordMissingCategory(ctx, nil, []string{"x"})
		RecordExport(ctx, nil, "csv")
	})
}

func TestInitializeOTel_Twice(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	cfg := &OTelConfig{TraceExporter: "none", MetricExporter: "prometheus"}

	first, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	defer first.Shutdown(context.Background())

	second, err := InitializeOTel(cfg, logger)
	require.NoError(t, err, "a second provider must not clash with the first registry")
	defer second.Shutdown(context.Background())
}
