package csv2pdf

// Notes:
// - Tests Converter.Convert end-to-end on real temp files with the PDF backend
//   mocked, so no browser is needed.
// - withPDFConverter is an internal test option for dependency injection.
// - Error tests assert both the outer sentinel (ErrIngestion, ErrRender) and
//   the underlying package sentinel stay reachable through errors.Is.

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-csv2pdf/internal/tabular"
	"github.com/alnah/go-csv2pdf/internal/templating"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPDFConverter struct {
	called    bool
	closed    bool
	inputHTML string
	inputOpts *pdfOptions
	output    []byte
	err       error
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

func withPDFConverter(c pdfConverter) Option {
	return func(conv *Converter) {
		conv.pdfConverter = c
	}
}

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

// fixture writes a template, a data file and optionally a stylesheet into a
// temp dir and returns an Input pointing at them.
type fixture struct {
	template string
	data     string
	css      string
	noCSS    bool
}

func (f fixture) write(t *testing.T) Input {
	t.Helper()
	dir := t.TempDir()

	tmpl := f.template
	if tmpl == "" {
		tmpl = "<p>{{.name}} ({{.age}})</p>"
	}
	data := f.data
	if data == "" {
		data = "Name,Age\nAda,36\nBob,40\n"
	}

	writeFile(t, filepath.Join(dir, "card.html"), tmpl)
	writeFile(t, filepath.Join(dir, "people.csv"), data)
	if !f.noCSS {
		css := f.css
		if css == "" {
			css = ".card { color: red; }"
		}
		writeFile(t, filepath.Join(dir, "card.css"), css)
	}

	return Input{
		TemplatePath: filepath.Join(dir, "card.html"),
		DataPath:     filepath.Join(dir, "people.csv"),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func newTestConverter(t *testing.T, mock *mockPDFConverter, opts ...Option) (*Converter, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	opts = append([]Option{WithLogger(logger), withPDFConverter(mock)}, opts...)
	conv := NewConverter(opts...)
	t.Cleanup(func() { _ = conv.Close() })
	return conv, &logs
}

// ---------------------------------------------------------------------------
// TestValidateInput - Input Validation
// ---------------------------------------------------------------------------

func TestValidateInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{
			name:    "missing template",
			input:   Input{DataPath: "people.csv"},
			wantErr: ErrMissingTemplate,
		},
		{
			name:    "missing data",
			input:   Input{TemplatePath: "card.html"},
			wantErr: ErrMissingData,
		},
		{
			name: "invalid page size",
			input: Input{
				TemplatePath: "card.html",
				DataPath:     "people.csv",
				Page:         &PageSettings{Size: "a0", Orientation: OrientationPortrait, Margin: DefaultMargin},
			},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:  "valid minimal input",
			input: Input{TemplatePath: "card.html", DataPath: "people.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, _ := newTestConverter(t, &mockPDFConverter{})
			err := conv.validateInput(tt.input)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateInput() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateInput_InvalidConverterPage(t *testing.T) {
	t.Parallel()

	conv, _ := newTestConverter(t, &mockPDFConverter{},
		WithPageSettings(&PageSettings{Size: PageSizeA4, Orientation: "diagonal", Margin: DefaultMargin}))

	err := conv.validateInput(Input{TemplatePath: "card.html", DataPath: "people.csv"})
	if !errors.Is(err, ErrInvalidOrientation) {
		t.Errorf("validateInput() error = %v, want ErrInvalidOrientation", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_HTML - Preview Output
// ---------------------------------------------------------------------------

func TestConvert_HTML(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{}
	conv, _ := newTestConverter(t, mock)

	input := fixture{noCSS: true}.write(t)
	input.Format = FormatHTML
	input.Lang = "fi"

	result, err := conv.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if result.Format != FormatHTML {
		t.Errorf("Format = %v, want html", result.Format)
	}
	if result.PDF != nil {
		t.Error("PDF should be empty for HTML output")
	}
	if mock.called {
		t.Error("PDF converter should not be called for HTML output")
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="fi">`,
		`<link rel="stylesheet" href="main.css">`,
		"<p>Ada (36)</p><p>Bob (40)</p>",
	} {
		if !strings.Contains(result.HTML, want) {
			t.Errorf("HTML missing %q:\n%s", want, result.HTML)
		}
	}
	if string(result.Bytes()) != result.HTML {
		t.Error("Bytes() should return the HTML document")
	}
}

func TestConvert_HTMLDoesNotNeedStylesheet(t *testing.T) {
	t.Parallel()

	conv, _ := newTestConverter(t, &mockPDFConverter{})
	input := fixture{noCSS: true}.write(t)
	input.Format = FormatHTML

	if _, err := conv.Convert(context.Background(), input); err != nil {
		t.Errorf("Convert() unexpected error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_PDF - Compiled Output
// ---------------------------------------------------------------------------

func TestConvert_PDF(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{output: []byte("%PDF-1.7 cards")}
	conv, _ := newTestConverter(t, mock)

	input := fixture{css: ".card { color: blue; }"}.write(t)

	result, err := conv.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if !mock.called {
		t.Fatal("PDF converter was not called")
	}
	if string(result.PDF) != "%PDF-1.7 cards" {
		t.Errorf("PDF = %q", result.PDF)
	}
	if result.HTML != "" {
		t.Error("HTML should be empty for PDF output")
	}
	if string(result.Bytes()) != "%PDF-1.7 cards" {
		t.Error("Bytes() should return the PDF")
	}

	for _, want := range []string{
		"<style>.card { color: blue; }</style>",
		`<html lang="en">`,
		`<base href="file://`,
		"<p>Ada (36)</p><p>Bob (40)</p>",
	} {
		if !strings.Contains(mock.inputHTML, want) {
			t.Errorf("document missing %q:\n%s", want, mock.inputHTML)
		}
	}
	if strings.Contains(mock.inputHTML, "main.css") {
		t.Error("PDF document should not link the preview stylesheet")
	}
}

func TestConvert_PageSettings(t *testing.T) {
	t.Parallel()

	converterPage := &PageSettings{Size: PageSizeLetter, Orientation: OrientationLandscape, Margin: 1}
	inputPage := &PageSettings{Size: PageSizeLegal, Orientation: OrientationPortrait, Margin: 2}

	tests := []struct {
		name      string
		convPage  *PageSettings
		inputPage *PageSettings
		want      *PageSettings
	}{
		{name: "nil everywhere", want: nil},
		{name: "converter default", convPage: converterPage, want: converterPage},
		{name: "input overrides", convPage: converterPage, inputPage: inputPage, want: inputPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockPDFConverter{}
			var opts []Option
			if tt.convPage != nil {
				opts = append(opts, WithPageSettings(tt.convPage))
			}
			conv, _ := newTestConverter(t, mock, opts...)

			input := fixture{}.write(t)
			input.Page = tt.inputPage

			if _, err := conv.Convert(context.Background(), input); err != nil {
				t.Fatalf("Convert() unexpected error: %v", err)
			}
			if mock.inputOpts == nil {
				t.Fatal("pdfOptions not passed")
			}
			if mock.inputOpts.Page != tt.want {
				t.Errorf("Page = %+v, want %+v", mock.inputOpts.Page, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Errors - Error Wrapping
// ---------------------------------------------------------------------------

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	pdfErr := errors.New("browser crashed")

	tests := []struct {
		name     string
		fixture  fixture
		mutate   func(*Input)
		mock     *mockPDFConverter
		wantErrs []error
	}{
		{
			name:     "missing data file",
			mutate:   func(in *Input) { in.DataPath += ".gone" },
			wantErrs: []error{ErrIngestion, tabular.ErrRead},
		},
		{
			name:     "undelimited data",
			fixture:  fixture{data: "Name\nAda\nBob\n"},
			wantErrs: []error{ErrIngestion, tabular.ErrSniff},
		},
		{
			name:     "unknown encoding",
			mutate:   func(in *Input) { in.Encoding = "klingon" },
			wantErrs: []error{ErrIngestion, tabular.ErrUnknownEncoding},
		},
		{
			name:     "missing stylesheet",
			fixture:  fixture{noCSS: true},
			wantErrs: []error{ErrIngestion, ErrStylesheetNotFound},
		},
		{
			name:     "missing template",
			mutate:   func(in *Input) { in.TemplatePath += ".gone" },
			wantErrs: []error{ErrRender, templating.ErrTemplateNotFound},
		},
		{
			name:     "template syntax error",
			fixture:  fixture{template: "{{if .name}}"},
			wantErrs: []error{ErrRender, templating.ErrTemplateSyntax},
		},
		{
			name:     "printing undefined field",
			fixture:  fixture{template: "{{.email}}"},
			wantErrs: []error{ErrRender, templating.ErrUndefined},
		},
		{
			name:     "pdf backend failure",
			mock:     &mockPDFConverter{err: pdfErr},
			wantErrs: []error{pdfErr},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := tt.mock
			if mock == nil {
				mock = &mockPDFConverter{}
			}
			conv, _ := newTestConverter(t, mock)

			input := tt.fixture.write(t)
			if tt.mutate != nil {
				tt.mutate(&input)
			}

			result, err := conv.Convert(context.Background(), input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if result != nil {
				t.Error("result should be nil on error")
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("error = %v, want %v in chain", err, want)
				}
			}
		})
	}
}

func TestConvert_UndefinedFieldLogged(t *testing.T) {
	t.Parallel()

	conv, logs := newTestConverter(t, &mockPDFConverter{})
	input := fixture{template: "{{if .email}}{{.email}}{{else}}-{{end}}"}.write(t)
	input.Format = FormatHTML

	result, err := conv.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}
	if !strings.Contains(result.HTML, "\n--\n") {
		t.Errorf("undefined field should be falsy, got:\n%s", result.HTML)
	}
	if !strings.Contains(logs.String(), "field=email") {
		t.Errorf("undefined field not logged: %q", logs.String())
	}
}

// ---------------------------------------------------------------------------
// TestConvert_ContextCancellation - Context Cancellation Handling
// ---------------------------------------------------------------------------

func TestConvert_ContextCancellation(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{}
	conv, _ := newTestConverter(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, fixture{}.write(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if mock.called {
		t.Error("PDF converter should not run after cancellation")
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Construction and Options
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	conv := NewConverter()
	defer conv.Close()

	if conv.cfg.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", conv.cfg.timeout, defaultTimeout)
	}
	if conv.cfg.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
	if _, ok := conv.pdfConverter.(*rodConverter); !ok {
		t.Errorf("pdfConverter = %T, want *rodConverter", conv.pdfConverter)
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	conv := NewConverter(WithTimeout(5e9), withPDFConverter(&mockPDFConverter{}))
	if conv.cfg.timeout != 5e9 {
		t.Errorf("timeout = %v, want 5s", conv.cfg.timeout)
	}

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	t.Parallel()

	conv := NewConverter(WithLogger(nil), withPDFConverter(&mockPDFConverter{}))
	if conv.cfg.logger == nil {
		t.Error("nil logger should be ignored")
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{}
	conv := NewConverter(withPDFConverter(mock))

	if err := conv.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
	if !mock.closed {
		t.Error("Close() should close the PDF converter")
	}
}

func TestStylesheetPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"card.html", "card.css"},
		{filepath.Join("tmpl", "card.htm"), filepath.Join("tmpl", "card.css")},
		{"card", "card.css"},
	}

	for _, tt := range tests {
		if got := StylesheetPath(tt.in); got != tt.want {
			t.Errorf("StylesheetPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
