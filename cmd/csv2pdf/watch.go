package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	csv2pdf "github.com/alnah/go-csv2pdf"
	"github.com/alnah/go-csv2pdf/internal/preview"
)

// watchDirs returns the directories holding the template, its stylesheet and
// the data file.
func watchDirs(input csv2pdf.Input) []string {
	return []string{
		filepath.Dir(input.TemplatePath),
		filepath.Dir(input.DataPath),
	}
}

// runWatch converts once, then again after every change to the inputs, until
// ctx is done. Failed runs are reported and leave the previous output in
// place.
func runWatch(ctx context.Context, env *Environment, conv Converter, opts *runOptions, logger *slog.Logger) error {
	outAbs, err := filepath.Abs(opts.output)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, opts.output, err)
	}

	w, err := preview.NewWatcher(preview.WatchConfig{
		Dirs: watchDirs(opts.input),
		// Our own output lands next to the inputs more often than not.
		Match:  func(path string) bool { return path != outAbs },
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	regenerate := func() {
		if err := convertOnce(ctx, env, conv, opts, logger); err != nil {
			if ctx.Err() != nil {
				return
			}
			reportError(env.Stderr, err, opts)
			return
		}
		if !opts.quiet {
			fmt.Fprintf(env.Stderr, "Wrote %s\n", opts.output)
		}
	}

	regenerate()
	if !opts.quiet {
		fmt.Fprintln(env.Stderr, "Watching for changes (Ctrl+C to stop)")
	}
	return w.Run(ctx, regenerate)
}
