// Package logging builds the charm loggers shared across ezcomplete.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a text logger writing to w.
func New(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           level,
	})
}

// Stderr creates a logger for command-line output.
func Stderr(prefix string, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return New(os.Stderr, prefix, level)
}

// ToFile appends debug output to path. The terminal page owns stdout, so
// logging there would corrupt the screen. Callers close the returned file.
func ToFile(path, prefix string) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l := log.NewWithOptions(f, log.Options{
		Prefix:          prefix,
		ReportCaller:    true,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
		Level:           log.DebugLevel,
	})
	return l, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
