// Package logging configures the process-wide zerolog logger. All log output
// goes to stderr so stdout stays reserved for reports.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DebugEnv forces debug logging when set to a non-empty value.
const DebugEnv = "REVIBE_DEBUG"

// Options selects the log level and output style.
type Options struct {
	Verbose bool
	Quiet   bool
	NoColor bool

	// Out defaults to os.Stderr.
	Out io.Writer
}

// Level returns the level implied by opts and the environment. Verbose wins
// over Quiet.
func (o Options) Level() zerolog.Level {
	switch {
	case o.Verbose || os.Getenv(DebugEnv) != "":
		return zerolog.DebugLevel
	case o.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup installs a console logger as log.Logger and returns it.
func Setup(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: opts.NoColor}).
		Level(opts.Level()).
		With().Timestamp().Logger()
	return log.Logger
}
