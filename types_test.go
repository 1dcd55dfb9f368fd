package csv2pdf

// Notes:
// - PageSettings: tests validation for size, orientation, and margin boundaries
// - Format and Result: tests the string form and format-dependent bytes

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPageSettings_Validate - PageSettings Validation
// ---------------------------------------------------------------------------

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ps      *PageSettings
		wantErr error
	}{
		{
			name:    "nil is valid (use defaults)",
			ps:      nil,
			wantErr: nil,
		},
		{
			name:    "defaults are valid",
			ps:      DefaultPageSettings(),
			wantErr: nil,
		},
		{
			name: "valid letter landscape",
			ps: &PageSettings{
				Size:        PageSizeLetter,
				Orientation: OrientationLandscape,
				Margin:      1.0,
			},
		},
		{
			name: "valid legal at min margin",
			ps: &PageSettings{
				Size:        PageSizeLegal,
				Orientation: OrientationPortrait,
				Margin:      MinMargin,
			},
		},
		{
			name: "valid at max margin",
			ps: &PageSettings{
				Size:        PageSizeA4,
				Orientation: OrientationPortrait,
				Margin:      MaxMargin,
			},
		},
		{
			name: "case insensitive",
			ps: &PageSettings{
				Size:        "A4",
				Orientation: "LANDSCAPE",
				Margin:      DefaultMargin,
			},
		},
		{
			name: "unknown size",
			ps: &PageSettings{
				Size:        "tabloid",
				Orientation: OrientationPortrait,
				Margin:      DefaultMargin,
			},
			wantErr: ErrInvalidPageSize,
		},
		{
			name: "empty size",
			ps: &PageSettings{
				Orientation: OrientationPortrait,
				Margin:      DefaultMargin,
			},
			wantErr: ErrInvalidPageSize,
		},
		{
			name: "unknown orientation",
			ps: &PageSettings{
				Size:        PageSizeA4,
				Orientation: "upside-down",
				Margin:      DefaultMargin,
			},
			wantErr: ErrInvalidOrientation,
		},
		{
			name: "margin below min",
			ps: &PageSettings{
				Size:        PageSizeA4,
				Orientation: OrientationPortrait,
				Margin:      0.1,
			},
			wantErr: ErrInvalidMargin,
		},
		{
			name: "margin above max",
			ps: &PageSettings{
				Size:        PageSizeA4,
				Orientation: OrientationPortrait,
				Margin:      3.5,
			},
			wantErr: ErrInvalidMargin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.ps.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFormat - Output Format
// ---------------------------------------------------------------------------

func TestFormat_String(t *testing.T) {
	t.Parallel()

	if got := FormatPDF.String(); got != "pdf" {
		t.Errorf("FormatPDF.String() = %q", got)
	}
	if got := FormatHTML.String(); got != "html" {
		t.Errorf("FormatHTML.String() = %q", got)
	}

	var zero Input
	if zero.Format != FormatPDF {
		t.Error("zero Input should request PDF")
	}
}

func TestResult_Bytes(t *testing.T) {
	t.Parallel()

	html := &Result{Format: FormatHTML, HTML: "<p>x</p>"}
	if got := string(html.Bytes()); got != "<p>x</p>" {
		t.Errorf("HTML Bytes() = %q", got)
	}

	pdf := &Result{Format: FormatPDF, PDF: []byte("%PDF")}
	if got := string(pdf.Bytes()); got != "%PDF" {
		t.Errorf("PDF Bytes() = %q", got)
	}
}
