package main

import (
	"io"
	"os"
	"time"

	nb2hw "github.com/alnah/go-nb2hw"
)

// Pool hands out converters and releases their browsers on Close.
type Pool interface {
	nb2hw.RendererProvider
	Close() error
}

// Compile-time interface check.
var _ Pool = (*nb2hw.ConverterPool)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// NewPool builds the converter pool for a run.
	NewPool func(size int, opts ...nb2hw.Option) Pool

	// Merger combines per-problem PDFs. Nil uses pdfcpu.
	Merger nb2hw.PageMerger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPool: func(size int, opts ...nb2hw.Option) Pool {
			return nb2hw.NewConverterPool(size, opts...)
		},
	}
}
