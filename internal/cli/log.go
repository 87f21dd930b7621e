// Package cli implements the bookstack command-line interface.
//
// The commands validate a book collection, print its sort permutations and
// stack layout, render JSON or SVG artifacts, serve the HTTP API and browse
// the stack interactively in the terminal. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - validate: Check a book file against the schema
//   - sort: Print every sort permutation, or the books in one order
//   - layout: Print the stacked positions of an arrangement
//   - render: Write JSON or SVG artifacts
//   - serve: Run the HTTP API behind the password gate
//   - browse: Scroll, sort, search and focus books in a terminal UI
//   - login, logout: Manage the local device's gate flag
//   - cache: Manage the pipeline cache
//
// # Configuration
//
// Every command reads the layered configuration from internal/config. A book
// file given as the first argument replaces the configured source.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline, cache and HTTP events.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Rendered 2 artifacts (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
