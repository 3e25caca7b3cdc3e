package http

import (
	"errors"
	"net/http"

	apierrors "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/errors"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/services"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// toAPIError maps service errors onto API errors. Unknown errors pass
// through and end up as 500.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoDataset):
		return apierrors.ErrNoDatasetLoaded
	case errors.Is(err, services.ErrInvalidFilter):
		return apierrors.ErrValidation("filter", err.Error())
	case errors.Is(err, services.ErrUnknownChart):
		return apierrors.NewWithDetails(http.StatusNotFound, "UNKNOWN_CHART", err.Error(),
			map[string]interface{}{"available": domain.ChartNames})
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", err.Error())
	case errors.Is(err, services.ErrServiceUnavailable):
		return apierrors.New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", err.Error())
	case apierrors.IsLoadError(err):
		return apierrors.DatasetLoadError(err)
	}
	return err
}
