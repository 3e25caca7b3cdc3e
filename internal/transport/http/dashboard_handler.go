package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/errors"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/exporter"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/infrastructure"
	appmw "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/middleware"
	api "github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/api/v1"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// Query parameters of the dashboard endpoints.
const (
	ParamItemType   = "item_type"
	ParamOutletSize = "outlet_size"
	ParamYearMin    = "year_min"
	ParamYearMax    = "year_max"
	ParamFormat     = "format"
)

const maxYear = 9999

// DashboardHandler handles dashboard HTTP requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *appmw.ValidationMiddleware
	query        *appmw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    appmw.NewValidationMiddleware(logger, errorHandler),
		query:        appmw.NewQueryParamValidator(logger, errorHandler),
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/", h.GetDashboard)
		r.Get("/options", h.GetOptions)
		r.Get("/filter", h.GetDefaultFilter)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/charts", h.ListCharts)
		r.Get("/charts/{chart}", h.GetChart)
		r.Get("/groups/{field}", h.GetGroupSummary)

		r.With(appmw.ContentTypeValidator("application/json"), h.validator.ValidateRequest).
			Post("/query", h.QueryDashboard)
	})

	r.Get("/export", h.Export)

	return r
}

// parseFilter reads the filter from the query string. An absent list
// parameter means the default selection, a present but empty one selects
// nothing.
func (h *DashboardHandler) parseFilter(w http.ResponseWriter, r *http.Request) (api.FilterRequest, bool) {
	var req api.FilterRequest

	if values, present := appmw.StringList(r, ParamItemType); present {
		req.ItemTypes = values
	}
	if values, present := appmw.StringList(r, ParamOutletSize); present {
		req.OutletSizes = values
	}

	var ok bool
	if req.YearMin, ok = h.query.ValidateOptionalInt(w, r, ParamYearMin, 0, maxYear); !ok {
		return req, false
	}
	if req.YearMax, ok = h.query.ValidateOptionalInt(w, r, ParamYearMax, 0, maxYear); !ok {
		return req, false
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return req, false
	}
	return req, true
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.DebugContext(r.Context(), "dashboard request failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	h.errorHandler.HandleError(w, r, toAPIError(err))
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), req)
	if err != nil {
		h.fail(w, r, "dashboard", err)
		return
	}
	render.JSON(w, r, dashboard)
}

// QueryDashboard handles POST /api/dashboard/query
func (h *DashboardHandler) QueryDashboard(w http.ResponseWriter, r *http.Request) {
	var req api.FilterRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), req)
	if err != nil {
		h.fail(w, r, "query", err)
		return
	}
	render.JSON(w, r, dashboard)
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Options(r.Context())
	if err != nil {
		h.fail(w, r, "options", err)
		return
	}
	render.JSON(w, r, options)
}

// GetDefaultFilter handles GET /api/dashboard/filter
func (h *DashboardHandler) GetDefaultFilter(w http.ResponseWriter, r *http.Request) {
	spec, err := h.service.DefaultFilter(r.Context())
	if err != nil {
		h.fail(w, r, "filter", err)
		return
	}
	render.JSON(w, r, spec)
}

// GetKPIs handles GET /api/dashboard/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	kpis, err := h.service.KPIs(r.Context(), req)
	if err != nil {
		h.fail(w, r, "kpis", err)
		return
	}
	render.JSON(w, r, kpis)
}

// ListCharts handles GET /api/dashboard/charts
func (h *DashboardHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"charts": domain.ChartNames,
		"count":  len(domain.ChartNames),
	})
}

// GetChart handles GET /api/dashboard/charts/{chart}
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	chart, err := h.service.Chart(r.Context(), chi.URLParam(r, "chart"), req)
	if err != nil {
		h.fail(w, r, "chart", err)
		return
	}
	render.JSON(w, r, chart)
}

// GetGroupSummary handles GET /api/dashboard/groups/{field}
func (h *DashboardHandler) GetGroupSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GroupSummary(r.Context(), chi.URLParam(r, "field"), req)
	if err != nil {
		h.fail(w, r, "group", err)
		return
	}
	render.JSON(w, r, summary)
}

// Export handles GET /api/dashboard/export. The file is built in memory so
// a failure can still be reported as a problem response.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	formatName, ok := h.query.ValidateEnum(w, r, ParamFormat,
		[]string{string(exporter.FormatCSV), string(exporter.FormatXLSX)}, string(exporter.FormatCSV))
	if !ok {
		return
	}
	format, err := exporter.ParseFormat(formatName)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(ParamFormat, err.Error()))
		return
	}

	req, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), req, format, &buf); err != nil {
		h.fail(w, r, "export", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}
