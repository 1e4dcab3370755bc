// Package logging builds the structured loggers used across tasktree.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const prefix = "tasktree"

// New returns a logger writing to w at the given level (debug|info|warn|error).
// Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = io.Discard
	}
	l := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	l.SetLevel(ParseLevel(level))
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, "error")
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// OpenFile opens (appending) a log file for surfaces that own the terminal.
// An empty path yields a discarding logger and a no-op closer.
func OpenFile(path, level string) (*log.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Discard(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f, level)
	l.SetFormatter(log.LogfmtFormatter)
	return l, f.Close, nil
}
