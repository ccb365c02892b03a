// Package logger provides structured logging for eadspot
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Levels accepted by -verbosity, lowest to highest severity.
var Levels = []string{"debug", "info", "warn", "error", "fatal"}

// ParseLevel maps a verbosity string to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch s {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "fatal":
		return zerolog.FatalLevel, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown verbosity %q (want one of %v)", s, Levels)
}

// New creates the operator-facing logger. Diagnostics go to stderr so
// the console report on stdout stays clean.
func New(level zerolog.Level, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	cw := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
