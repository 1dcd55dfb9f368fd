package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// serveDefaultSentinel is the value of a bare --serve: the address then
// comes from config, else DefaultServeAddr.
const serveDefaultSentinel = "\x00default"

// DefaultServeAddr is the preview address when neither flag nor config set one.
const DefaultServeAddr = "localhost:8000"

// commonFlags holds flags shared by every mode.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags holds data ingestion flags.
type inputFlags struct {
	encoding    string
	doubleQuote bool
}

// outputFlags holds output flags.
type outputFlags struct {
	path string
	html bool
	lang string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// modeFlags select a long-running mode instead of a single conversion.
type modeFlags struct {
	watch bool
	serve string
}

// cliFlags holds every flag.
type cliFlags struct {
	common  commonFlags
	input   inputFlags
	output  outputFlags
	page    pageFlags
	mode    modeFlags
	timeout string
	version bool
	help    bool
	doctor  bool
	json    bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addInputFlags adds data ingestion flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVar(&f.encoding, "encoding", "", "data file encoding (default utf-8)")
	fs.BoolVar(&f.doubleQuote, "dblquote", false, "treat doubled quotes as escaped quotes")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "output file (default stdout)")
	fs.BoolVar(&f.html, "html", false, "output HTML instead of PDF")
	fs.StringVar(&f.lang, "lang", "", "document language (default en)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addModeFlags adds watch and serve flags to a FlagSet.
func addModeFlags(fs *flag.FlagSet, f *modeFlags) {
	fs.BoolVar(&f.watch, "watch", false, "regenerate the output when inputs change (requires -o)")
	fs.StringVar(&f.serve, "serve", "", "serve a live HTML preview on addr (--serve=addr)")
	fs.Lookup("serve").NoOptDefVal = serveDefaultSentinel
}

// parseFlags parses command-line arguments (without the program name) and
// returns the positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("csv2pdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &cliFlags{}

	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.BoolVar(&f.doctor, "doctor", false, "check that PDF output can work here")
	fs.BoolVar(&f.json, "json", false, "print --doctor results as JSON")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addOutputFlags(fs, &f.output)
	addPageFlags(fs, &f.page)
	addModeFlags(fs, &f.mode)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			f.help = true
			return f, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.help || f.version {
		return f, fs.Args(), nil
	}
	if f.json && !f.doctor {
		return nil, nil, fmt.Errorf("%w: --json requires --doctor", ErrUsage)
	}
	if f.doctor {
		return f, fs.Args(), nil
	}

	positional := fs.Args()
	if len(positional) != 2 {
		return nil, nil, fmt.Errorf("%w: expected <template.html> <data.csv>, got %d argument(s)", ErrUsage, len(positional))
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	if f.mode.watch && f.mode.serve != "" {
		return nil, nil, fmt.Errorf("%w: --watch and --serve are mutually exclusive", ErrUsage)
	}
	if f.mode.watch && f.output.path == "" {
		return nil, nil, fmt.Errorf("%w: --watch requires --output", ErrUsage)
	}
	if fs.Changed("margin") && f.page.margin == 0 {
		return nil, nil, fmt.Errorf("%w: --margin must be positive", ErrUsage)
	}
	return f, positional, nil
}
