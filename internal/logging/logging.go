// Package logging configures the structured logger shared by the daemon and
// the CLI. Text goes to stderr; when a log file is configured entries are
// written there as JSON instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// Config selects the log destination and level.
type Config struct {
	Level string
	// File switches to JSON output appended to this path.
	File string
	// Prefix is shown in front of every text entry.
	Prefix string
}

// New builds a logger. The returned closer releases the log file, if any.
func New(cfg Config) (*clog.Logger, io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
		json   bool
	)
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer, json = f, f, true
	}

	logger := clog.NewWithOptions(out, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(cfg.Level),
		Prefix:          cfg.Prefix,
	})
	if json {
		logger.SetFormatter(clog.JSONFormatter)
		logger.SetTimeFormat(time.RFC3339Nano)
		logger = logger.With("pid", os.Getpid())
	}
	return logger, closer, nil
}

// Nop returns a logger that discards everything.
func Nop() *clog.Logger {
	return clog.NewWithOptions(io.Discard, clog.Options{Level: clog.FatalLevel})
}

// ParseLevel maps a level name to a clog level, defaulting to info.
func ParseLevel(level string) clog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
