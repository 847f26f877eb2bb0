// Package logger sets up zerolog for the sync run and tracks run metrics.
//
// Production runs log JSON to stderr at info level. Verbose runs switch to a
// human-readable console writer at debug level. Setup also installs the
// logger as the zerolog global so store adapters logging through
// github.com/rs/zerolog/log share its level and output.
//
// Example usage:
//
//	log := logger.Setup(verbose)
//	log.Info().Str("club_id", clubID).Msg("Starting sync")
//
//	metrics := logger.NewMetrics()
//	metrics.IncrCounter("wins.synced")
//	metrics.RecordTiming("day.process", time.Since(started))
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup builds the process logger on stderr and installs it globally
func Setup(verbose bool) zerolog.Logger {
	logger := New(os.Stderr, verbose)
	log.Logger = logger
	return logger
}

// New builds a logger writing to w
func New(w io.Writer, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Caller().Logger()
}
