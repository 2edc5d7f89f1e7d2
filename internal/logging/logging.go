// Package logging builds the structured loggers used across the client.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by the client.
const Prefix = "detective"

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           lvl,
		ReportTimestamp: lvl == log.DebugLevel,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
