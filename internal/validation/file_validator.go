package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DatasetExtensions lists the file extensions the loader accepts.
var DatasetExtensions = []string{".csv", ".xlsx"}

// maxFileNameLength bounds upload names.
const maxFileNameLength = 255

// FileValidator provides common file validation functions for the server and CLI
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// validateFile checks that path is an existing, readable regular file.
func (v *FileValidator) validateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDatasetFile checks that path is a readable CSV or XLSX file.
func (v *FileValidator) ValidateDatasetFile(path string) error {
	if err := v.validateFile(path); err != nil {
		return err
	}
	if err := checkDatasetName(filepath.Base(path)); err != nil {
		v.logger.Error("Unsupported dataset file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ValidateUploadName checks a client supplied file name: a bare name with a
// supported extension.
func (v *FileValidator) ValidateUploadName(name string) error {
	if name == "" {
		return fmt.Errorf("file name is required")
	}
	if len(name) > maxFileNameLength {
		return fmt.Errorf("file name exceeds %d characters", maxFileNameLength)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		v.logger.Warn("Rejected upload name with path elements",
			slog.String("name", name))
		return fmt.Errorf("file name %q must not contain path elements", name)
	}
	return checkDatasetName(name)
}

// IsDatasetFile reports whether name looks like a dataset the loader can read.
// Office lock files (~$name.xlsx) are not datasets.
func IsDatasetFile(name string) bool {
	return checkDatasetName(filepath.Base(name)) == nil
}

func checkDatasetName(base string) error {
	if strings.HasPrefix(base, "~$") {
		return fmt.Errorf("file %s is a temporary Excel file", base)
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, allowed := range DatasetExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("file %s is not a dataset (extension %q, want one of %s)",
		base, ext, strings.Join(DatasetExtensions, ", "))
}
