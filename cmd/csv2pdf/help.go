package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: csv2pdf [flags] <template.html> <data.csv>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render an HTML template once per data row and compile the result to PDF.")
	fmt.Fprintln(w, "The data file may be delimited text (delimiter detected) or an .xlsx workbook.")
	fmt.Fprintln(w, "PDF output inlines <template>.css, which must sit next to the template.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  template.html    Template rendered once per record")
	fmt.Fprintln(w, "  data.csv         Data file, first row is the header")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w, "      --encoding <name>     Data file encoding (default utf-8)")
	fmt.Fprintln(w, "      --dblquote            Treat doubled quotes as escaped quotes")
	fmt.Fprintln(w, "      --html                Output HTML instead of PDF")
	fmt.Fprintln(w, "      --lang <tag>          Document language (default en)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Live Modes:")
	fmt.Fprintln(w, "      --watch               Regenerate --output when inputs change")
	fmt.Fprintln(w, "      --serve[=addr]        Serve a live HTML preview (default "+DefaultServeAddr+")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w, "      --doctor              Check Chrome and the system for PDF output")
	fmt.Fprintln(w, "      --json                Print --doctor results as JSON")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template Helpers:")
	fmt.Fprintln(w, "  nl2br, datetime, markdown, safe, striptags; {{.META.index}} is the record number")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CSV2PDF_CONFIG            Config name or path when --config is absent")
	fmt.Fprintln(w, "  CSV2PDF_ENCODING          Data file encoding")
	fmt.Fprintln(w, "  CSV2PDF_LANG              Document language")
	fmt.Fprintln(w, "  CSV2PDF_PAGE_SIZE         Page size")
	fmt.Fprintln(w, "  CSV2PDF_TIMEOUT           PDF generation timeout")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome/Chromium binary")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the browser sandbox (Docker/CI)")
	fmt.Fprintln(w, "  CSV2PDF_CONTAINER=1       Tell --doctor it runs in a container")
	fmt.Fprintln(w, "  A .env file in the working directory is loaded first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit Codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage/config, 3 I/O, 4 browser, 5 rendering")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  csv2pdf -o cards.pdf card.html people.csv")
	fmt.Fprintln(w, "  csv2pdf --html --encoding iso-8859-15 card.html people.csv > cards.html")
	fmt.Fprintln(w, "  csv2pdf --serve card.html people.xlsx")
	fmt.Fprintln(w, "  csv2pdf --doctor")
}
