package main

import (
	"context"
	"errors"
	"os"

	csv2pdf "github.com/alnah/go-csv2pdf"
	"github.com/alnah/go-csv2pdf/internal/config"
	"github.com/alnah/go-csv2pdf/internal/preview"
)

// Exit codes for csv2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Data or stylesheet unreadable, output not writable
	ExitBrowser = 4 // Browser/Chrome errors
	ExitRender  = 5 // Template loading or rendering errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, csv2pdf.ErrBrowserConnect) ||
		errors.Is(err, csv2pdf.ErrPageCreate) ||
		errors.Is(err, csv2pdf.ErrPageLoad) ||
		errors.Is(err, csv2pdf.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// Rendering errors (exit 5)
	if errors.Is(err, csv2pdf.ErrRender) {
		return ExitRender
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, csv2pdf.ErrMissingTemplate) ||
		errors.Is(err, csv2pdf.ErrMissingData) ||
		errors.Is(err, csv2pdf.ErrInvalidPageSize) ||
		errors.Is(err, csv2pdf.ErrInvalidOrientation) ||
		errors.Is(err, csv2pdf.ErrInvalidMargin) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, csv2pdf.ErrIngestion) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, preview.ErrWatch) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
