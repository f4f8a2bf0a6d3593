// Package cli implements the treematch command-line interface.
//
// This package provides commands for comparing ordered trees, balanced
// sequences and path lists, benchmarking the solver strategies, serving
// comparisons over HTTP, and managing the result cache. The CLI is built
// using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - embed, iso: Maximum common embedding or isomorphism of two tree files
//   - seq: Compare two balanced sequences directly
//   - paths: Compare two path lists as prefix trees
//   - encode, decode: Convert between trees and balanced sequences
//   - bench: Time every solver strategy on random trees
//   - serve: HTTP API with Prometheus metrics
//   - cache: Manage the result cache
//
// # Configuration
//
// Defaults for strategy, token kind, affinity, the cache backend and the
// server address are read from $XDG_CONFIG_HOME/treematch/config.toml (or
// --config). Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a timestamped logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Solved embedding (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg+" ("+elapsed.String()+")", keyvals...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
