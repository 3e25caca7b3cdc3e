package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/errors"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/infrastructure"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/validation"
)

// UploadField is the multipart field carrying the dataset file.
const UploadField = "file"

// DatasetHandler handles dataset upload and status requests
type DatasetHandler struct {
	service        DatasetServiceInterface
	files          *validation.FileValidator
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	logger = infrastructure.WithComponent(logger, "dataset_handler")
	return &DatasetHandler{
		service:        service,
		files:          validation.NewFileValidator(logger),
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		errorHandler:   errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetDataset)
	r.Post("/", h.UploadDataset)

	return r
}

// GetDataset handles GET /api/dataset
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, ok := h.service.DatasetInfo()
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoDatasetLoaded)
		return
	}
	render.JSON(w, r, info)
}

// UploadDataset handles POST /api/dataset. The uploaded file replaces the
// session dataset; on failure the previous one stays loaded.
func (h *DatasetHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
				"Dataset upload exceeds maximum allowed size",
				map[string]interface{}{"max_size": h.maxUploadBytes},
			))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(UploadField, "a dataset file is required"))
		return
	}
	defer file.Close()

	if err := h.files.ValidateUploadName(header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(UploadField, err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "dataset upload received",
		slog.String("name", header.Filename),
		slog.Int64("size", header.Size))

	info, err := h.service.LoadReader(r.Context(), file, header.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}
