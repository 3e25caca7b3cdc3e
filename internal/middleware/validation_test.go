package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/errors"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
	api "github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/api/v1"
)

func TestStringList(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		want        []string
		wantPresent bool
	}{
		{name: "absent", query: "", want: nil, wantPresent: false},
		{name: "present but empty", query: "item_type=", want: []string{}, wantPresent: true},
		{name: "repeated", query: "item_type=Dairy&item_type=Snack+Foods", want: []string{"Dairy", "Snack Foods"}, wantPresent: true},
		{name: "comma separated", query: "item_type=Dairy,+Canned", want: []string{"Dairy", "Canned"}, wantPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, present := StringList(r, "item_type")
			assert.Equal(t, tt.wantPresent, present)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryParamValidator_ValidateOptionalInt(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	tests := []struct {
		name       string
		query      string
		want       *int
		wantOK     bool
		wantStatus int
	}{
		{name: "absent", query: "", wantOK: true},
		{name: "valid", query: "year_min=2010", want: intPtr(2010), wantOK: true},
		{name: "not a number", query: "year_min=abc", wantStatus: http.StatusBadRequest},
		{name: "out of range", query: "year_min=-1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, ok := v.ValidateOptionalInt(rec, r, "year_min", 0, 9999)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if !tt.wantOK {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestValidationMiddleware_ValidateRequest(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	m := NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))

	h := m.ValidateRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid json", body: `{"item_types":["Dairy"]}`, wantStatus: http.StatusNoContent},
		{name: "invalid json", body: `{"item_types":`, wantStatus: http.StatusBadRequest},
		{name: "too large", body: `"` + strings.Repeat("a", DefaultMaxBodySize) + `"`, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestValidationMiddleware_DecodeAndValidate(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	m := NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))

	t.Run("valid", func(t *testing.T) {
		var req api.FilterRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"outlet_sizes":["Small"],"year_min":2000}`))
		require.NoError(t, m.DecodeAndValidate(r, &req))
		assert.Equal(t, []string{"Small"}, req.OutletSizes)
		require.NotNil(t, req.YearMin)
		assert.Equal(t, 2000, *req.YearMin)
	})

	t.Run("empty body", func(t *testing.T) {
		var req api.FilterRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, m.DecodeAndValidate(r, &req))
		assert.Nil(t, req.ItemTypes)
	})

	t.Run("unknown field", func(t *testing.T) {
		var req api.FilterRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"colour":"red"}`))
		assert.Error(t, m.DecodeAndValidate(r, &req))
	})

	t.Run("year out of range", func(t *testing.T) {
		var req api.FilterRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"year_max":100000}`))
		err := m.DecodeAndValidate(r, &req)
		require.Error(t, err)

		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))
	allowed := []string{"csv", "xlsx"}

	tests := []struct {
		name   string
		query  string
		want   string
		wantOK bool
	}{
		{name: "default", query: "", want: "csv", wantOK: true},
		{name: "allowed", query: "format=xlsx", want: "xlsx", wantOK: true},
		{name: "not allowed", query: "format=pdf", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, ok := v.ValidateEnum(rec, r, "format", allowed, "csv")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}
