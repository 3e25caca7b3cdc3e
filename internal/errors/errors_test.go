package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusBadRequest, "INVALID_PARAMETER", "year_min is not a number", "abc")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_PARAMETER", err.ErrorCode)
	assert.Equal(t, "year_min is not a number", err.Error())
	assert.Equal(t, "abc", err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("year_max", "must not be before year_min")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, ValidationError{Field: "year_max", Message: "must not be before year_min"}, err.Details)
}

func TestNewValidationErrors(t *testing.T) {
	fields := []ValidationError{
		{Field: "item_types", Message: "item_types must be at most 200"},
		{Field: "year_min", Message: "year_min must be greater than or equal to 0"},
	}
	err := NewValidationErrors(fields)

	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, ValidationErrors{Errors: fields}, err.Details)
}

func TestDatasetLoadError(t *testing.T) {
	err := DatasetLoadError(NewMissingColumnError("upload.csv", "Rating"))

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "DATASET_LOAD_FAILED", err.ErrorCode)

	details, ok := err.Details.(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, "Rating", details["column"])
		assert.Equal(t, "upload.csv", details["source"])
		assert.Contains(t, details["reason"], "Rating")
	}
}
