package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

type MockDatasetProbe struct {
	mock.Mock
}

func (m *MockDatasetProbe) DatasetInfo() (domain.DatasetInfo, bool) {
	args := m.Called()
	return args.Get(0).(domain.DatasetInfo), args.Bool(1)
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		info       domain.DatasetInfo
		loaded     bool
		wantStatus string
	}{
		{name: "dataset loaded", info: domain.DatasetInfo{Source: "blinkit_data.csv", Rows: 8523, LoadedAt: time.Now()}, loaded: true, wantStatus: "ready"},
		{name: "no dataset", loaded: false, wantStatus: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			probe := new(MockDatasetProbe)
			probe.On("DatasetInfo").Return(tt.info, tt.loaded)

			hs := NewHealthService(probe, logger)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantStatus, status.Services["dataset"].Status)
			if tt.loaded {
				assert.Contains(t, status.Services["dataset"].Message, "8523 rows")
			}
			probe.AssertExpectations(t)
		})
	}
}

func TestHealthService_NilProbe(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService(nil, logger)
	assert.Equal(t, "not_ready", hs.ReadinessCheck(context.Background()).Status)
}

func TestHealthService_HealthAndLiveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService(nil, logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, contracts.Version, health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}

func TestHealthService_Version(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewHealthService(nil, logger).Version()

	assert.Equal(t, contracts.Version, v["version"])
	assert.Equal(t, contracts.APIVersion, v["api_version"])
	assert.Equal(t, contracts.GetVersionString(), v["name"])
}
