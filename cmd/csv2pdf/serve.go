package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	csv2pdf "github.com/alnah/go-csv2pdf"
	"github.com/alnah/go-csv2pdf/internal/preview"
)

// runServe serves a live HTML preview on opts.serveAddr until ctx is done.
// Every page load renders afresh; file changes push a reload to open pages.
func runServe(ctx context.Context, env *Environment, conv Converter, opts *runOptions, logger *slog.Logger) error {
	input := opts.input
	input.Format = csv2pdf.FormatHTML

	srv, err := preview.NewServer(preview.Config{
		Dir: filepath.Dir(input.TemplatePath),
		Render: func(ctx context.Context) (string, error) {
			result, err := conv.Convert(ctx, input)
			if err != nil {
				return "", err
			}
			return result.HTML, nil
		},
		Hint: func(err error) string {
			return plainHint(hintFor(err, opts))
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	w, err := preview.NewWatcher(preview.WatchConfig{
		Dirs:   watchDirs(input),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, opts.serveAddr, func(addr net.Addr) {
			if !opts.quiet {
				fmt.Fprintf(env.Stderr, "Serving preview on http://%s/ (Ctrl+C to stop)\n", addr)
			}
		})
	})
	g.Go(func() error {
		return w.Run(gctx, srv.Reload)
	})
	return g.Wait()
}

// plainHint turns formatted hints into one line for the error page.
func plainHint(formatted string) string {
	parts := strings.Split(formatted, "\n  hint: ")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "; ")
}
