// Package telemetry is the observability collaborator spec.md §1 names but
// deliberately leaves unspecified: structured per-stage logging, plus
// optional OpenTelemetry span emission around the three expensive stages
// (product tree build, remainder descent, gcd extraction).
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger builds the run's structured logger. level is one of zerolog's
// level names ("debug", "info", "warn", "error"); an unrecognized value
// falls back to "info". When w's underlying file descriptor is a real
// terminal, output is a colorized console writer; otherwise (piped,
// redirected to a file, or in CI) it is plain newline-delimited JSON, which
// is what a batch job's log aggregator expects.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: colorable.NewColorable(f), TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Stage logs the start and elapsed time of one pipeline stage, returning a
// function the caller defers to log completion. count is a size the caller
// attaches to both log lines (the pipeline passes the number of input
// moduli, or 0 for ingest, where that number is not yet known).
func Stage(log zerolog.Logger, name string, count int) func() {
	start := time.Now()
	log.Info().Str("stage", name).Int("count", count).Msg("stage started")
	return func() {
		log.Info().Str("stage", name).Int("count", count).Dur("elapsed", time.Since(start)).Msg("stage completed")
	}
}
