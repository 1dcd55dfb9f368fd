package main

import (
	"context"
	"io"
	"os"

	csv2pdf "github.com/alnah/go-csv2pdf"
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input csv2pdf.Input) (*csv2pdf.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*csv2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// NewConverter builds the conversion service from resolved options.
	NewConverter func(opts ...csv2pdf.Option) Converter
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewConverter: func(opts ...csv2pdf.Option) Converter {
			return csv2pdf.NewConverter(opts...)
		},
	}
}
