// Package genlog is the generator CLI's structured logger: a thin
// zerolog wrapper exposing leveled event builders, the same shape the
// pack's only other CLI tool wraps its logging in.
package genlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).
		With().
		Timestamp().
		Logger()
}

// SetVerbose switches the global log level between info and debug.
func SetVerbose(v bool) {
	if v {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }

// WithRun returns a logger whose every event carries runID, so a batch
// generation run's lines can be told apart in aggregated build output.
func WithRun(runID string) zerolog.Logger {
	return log.With().Str("run_id", runID).Logger()
}
