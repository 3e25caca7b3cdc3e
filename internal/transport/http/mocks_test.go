package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/errors"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/exporter"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/services"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
	api "github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/api/v1"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Options(ctx context.Context) (domain.FilterOptions, error) {
	args := m.Called()
	return args.Get(0).(domain.FilterOptions), args.Error(1)
}

func (m *MockDashboardService) DefaultFilter(ctx context.Context) (domain.FilterSpec, error) {
	args := m.Called()
	return args.Get(0).(domain.FilterSpec), args.Error(1)
}

func (m *MockDashboardService) Dashboard(ctx context.Context, req api.FilterRequest) (domain.Dashboard, error) {
	args := m.Called(req)
	return args.Get(0).(domain.Dashboard), args.Error(1)
}

func (m *MockDashboardService) KPIs(ctx context.Context, req api.FilterRequest) (services.KPISummary, error) {
	args := m.Called(req)
	return args.Get(0).(services.KPISummary), args.Error(1)
}

func (m *MockDashboardService) Chart(ctx context.Context, name string, req api.FilterRequest) (domain.Chart, error) {
	args := m.Called(name, req)
	return args.Get(0).(domain.Chart), args.Error(1)
}

func (m *MockDashboardService) GroupSummary(ctx context.Context, field string, req api.FilterRequest) (domain.GroupSummary, error) {
	args := m.Called(field, req)
	return args.Get(0).(domain.GroupSummary), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, req api.FilterRequest, format exporter.Format, w io.Writer) error {
	args := m.Called(req, format, w)
	return args.Error(0)
}

// MockDatasetService is a mock implementation of DatasetServiceInterface
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) LoadReader(ctx context.Context, r io.Reader, name string) (domain.DatasetInfo, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(string(data), name)
	return args.Get(0).(domain.DatasetInfo), args.Error(1)
}

func (m *MockDatasetService) DatasetInfo() (domain.DatasetInfo, bool) {
	args := m.Called()
	return args.Get(0).(domain.DatasetInfo), args.Bool(1)
}

func newErrorHandler(t *testing.T) *apierrors.ErrorHandler {
	logger, _ := testutil.NewTestLogger(t)
	return apierrors.NewErrorHandler(logger, false)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func intPtr(v int) *int { return &v }
