package csv2pdf

import "errors"

// Sentinel errors for library operations.
var (
	// ErrIngestion wraps every failure to read the data file or the stylesheet.
	// The underlying tabular error stays reachable through errors.Is.
	ErrIngestion = errors.New("ingestion failed")

	// ErrRender wraps every template loading or execution failure.
	ErrRender = errors.New("rendering failed")

	ErrStylesheetNotFound = errors.New("stylesheet not found")
	ErrMissingTemplate    = errors.New("template path is required")
	ErrMissingData        = errors.New("data path is required")

	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
)
