package csv2pdf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions. CSS @page rules in the
// template stylesheet take precedence.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	_, ok := paperSizes[strings.ToLower(size)]
	return ok
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Format selects the output of a conversion.
type Format int

const (
	// FormatPDF compiles the rendered document to PDF.
	FormatPDF Format = iota
	// FormatHTML returns the rendered document as HTML.
	FormatHTML
)

// String returns "pdf" or "html".
func (f Format) String() string {
	if f == FormatHTML {
		return "html"
	}
	return "pdf"
}

// Input contains conversion parameters.
type Input struct {
	TemplatePath     string        // HTML template (required)
	DataPath         string        // CSV or XLSX data file (required)
	Encoding         string        // Data file encoding (optional, default utf-8)
	ForceDoubleQuote bool          // Treat doubled quotes as escapes regardless of sniffing
	Format           Format        // Output format (default PDF)
	Lang             string        // Document language (optional, default "en")
	Page             *PageSettings // Page settings (optional, nil = converter default)
}

// Result holds the rendered document. Exactly one of HTML or PDF is set,
// according to Format.
type Result struct {
	Format Format
	HTML   string
	PDF    []byte
}

// Bytes returns the document content, whatever the format.
func (r *Result) Bytes() []byte {
	if r.Format == FormatHTML {
		return []byte(r.HTML)
	}
	return r.PDF
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout time.Duration
	logger  *slog.Logger
	page    *PageSettings
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF compilation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("csv2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger receiving undefined-field warnings and progress
// details. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithPageSettings sets the page settings used when Input.Page is nil.
func WithPageSettings(p *PageSettings) Option {
	return func(c *Converter) {
		c.cfg.page = p
	}
}
