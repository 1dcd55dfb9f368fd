package csv2pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-csv2pdf/internal/fileutil"
	"github.com/alnah/go-csv2pdf/internal/pipeline"
	"github.com/alnah/go-csv2pdf/internal/tabular"
	"github.com/alnah/go-csv2pdf/internal/templating"
)

// Converter orchestrates the data-plus-template rendering pipeline.
// Create with NewConverter(), use Convert() for each document, and Close()
// when done to release the browser.
type Converter struct {
	cfg          converterConfig
	pdfConverter pdfConverter
}

// NewConverter creates a Converter with default configuration.
// The browser is not started until the first PDF conversion.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			logger:  slog.Default(),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c
}

// StylesheetPath returns the stylesheet used for PDF output: the template
// path with its extension replaced by ".css".
func StylesheetPath(templatePath string) string {
	return fileutil.ReplaceExtension(templatePath, ".css")
}

// Convert reads the data file, renders the template once per record and
// assembles the result in the requested format. Nothing partial is returned:
// any failure aborts the whole document.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}
	logger := c.cfg.logger

	start := time.Now()
	ds, err := tabular.ReadFile(input.DataPath, tabular.Options{
		Encoding:         input.Encoding,
		ForceDoubleQuote: input.ForceDoubleQuote,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIngestion, err)
	}
	logger.Debug("data loaded",
		slog.String("path", input.DataPath),
		slog.Int("records", len(ds.Records)),
		slog.Any("header", ds.Header),
		slog.String("dialect", ds.Dialect.String()),
		slog.Duration("elapsed", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	body, err := templating.Render(templating.Config{Logger: logger}, input.TemplatePath, ds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	logger.Debug("template rendered",
		slog.String("template", input.TemplatePath),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.Format == FormatHTML {
		return &Result{
			Format: FormatHTML,
			HTML:   pipeline.HTMLDocument(body, input.Lang),
		}, nil
	}

	return c.compilePDF(ctx, body, input)
}

// compilePDF inlines the template stylesheet and prints the document.
func (c *Converter) compilePDF(ctx context.Context, body string, input Input) (*Result, error) {
	cssPath := StylesheetPath(input.TemplatePath)
	css, err := os.ReadFile(cssPath) // #nosec G304 -- sibling of the user-provided template
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %s", ErrIngestion, ErrStylesheetNotFound, cssPath)
		}
		return nil, fmt.Errorf("%w: reading stylesheet %s: %w", ErrIngestion, cssPath, err)
	}

	doc, err := pipeline.PDFDocument(body, pipeline.PDFDocumentOptions{
		Lang:    input.Lang,
		BaseDir: filepath.Dir(input.TemplatePath),
		CSS:     string(css),
	})
	if err != nil {
		return nil, err
	}

	page := input.Page
	if page == nil {
		page = c.cfg.page
	}

	start := time.Now()
	pdf, err := c.pdfConverter.ToPDF(ctx, doc, &pdfOptions{Page: page})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	c.cfg.logger.Debug("pdf compiled",
		slog.Int("bytes", len(pdf)),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{Format: FormatPDF, PDF: pdf}, nil
}

// validateInput checks required paths and page settings.
func (c *Converter) validateInput(input Input) error {
	if input.TemplatePath == "" {
		return ErrMissingTemplate
	}
	if input.DataPath == "" {
		return ErrMissingData
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return c.cfg.page.Validate()
}

// Close releases browser resources.
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}
