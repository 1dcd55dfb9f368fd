// Package csv2pdf renders tabular data through an HTML template and compiles
// the result to PDF using headless Chrome.
//
// # Quick Start
//
// Create a converter, convert a data file, and close when done:
//
//	conv := csv2pdf.NewConverter()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, csv2pdf.Input{
//	    TemplatePath: "cards/card.html",
//	    DataPath:     "people.csv",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("cards.pdf", result.PDF, 0644)
//
// Set Input.Format to FormatHTML to get a standalone HTML preview instead;
// the browser is then never started.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Ingestion: the data file is decoded (CSV, with a sniffed dialect, or
//     the first sheet of an XLSX workbook) and the header is normalized.
//  2. Rendering: the template is executed once per record and the fragments
//     are concatenated in row order.
//  3. Assembly: the fragments are wrapped in a document shell. For PDF the
//     stylesheet next to the template (card.html -> card.css) is inlined.
//  4. Compilation: headless Chrome (go-rod) prints the document.
//
// # Templates
//
// Templates use html/template syntax. Each record exposes its fields under
// their normalized names, plus META.index, the zero-based row number:
//
//	<section class="card">
//	  <h2>{{.name}}</h2>
//	  {{nl2br .address}}
//	  <small>#{{.META.index}} {{.created | datetime "%d.%m.%Y"}}</small>
//	</section>
//
// Other templates in the template directory are included with
// {{template "parts/header.html" .}}. Helpers available to every template:
// nl2br, datetime, markdown, safe and striptags.
//
// A field missing from the data is logged as a warning. It is falsy in
// conditionals, and printing it aborts the conversion.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := csv2pdf.NewConverter(
//	    csv2pdf.WithTimeout(2 * time.Minute),
//	    csv2pdf.WithLogger(logger),
//	    csv2pdf.WithPageSettings(&csv2pdf.PageSettings{Size: "letter", Orientation: "landscape", Margin: 1}),
//	)
//
// # Error Handling
//
// Errors can be inspected with errors.Is:
//
//	if errors.Is(err, csv2pdf.ErrIngestion) {
//	    // data file or stylesheet could not be read
//	}
//	if errors.Is(err, csv2pdf.ErrRender) {
//	    // template failed to load or execute
//	}
//
// # Browser Lifecycle
//
// Converter manages a headless Chrome instance started on the first PDF
// conversion. Always call Close() to release browser resources. Conversions
// on one Converter are serialized while printing.
package csv2pdf
