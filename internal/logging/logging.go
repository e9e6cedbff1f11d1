// Package logging sets up the process-wide structured logger.
//
// Log records go to a rotated file under the download directory (the
// run is long and network-heavy, so a durable log matters more than
// console noise) and optionally to stderr. The returned closer flushes
// the rotation writer.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the desired logging configuration.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string

	// FilePath is the log file location; empty disables file logging.
	FilePath string

	// MaxSizeMB and MaxBackups bound the rotated log files.
	MaxSizeMB  int
	MaxBackups int

	// Console mirrors records to stderr.
	Console bool
}

// New builds a slog.Logger from cfg and returns it with a closer for
// the underlying file writer (nil-safe to call even without a file).
func New(cfg Config) (*slog.Logger, func() error) {
	var writers []io.Writer
	closer := func() error { return nil }

	if cfg.FilePath != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.FilePath), 0755)
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    max(cfg.MaxSizeMB, 1),
			MaxBackups: cfg.MaxBackups,
		}
		writers = append(writers, lj)
		closer = lj.Close
	}

	if cfg.Console || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	return slog.New(handler), closer
}

// Discard returns a logger that drops every record. Used by tests and
// by components that accept a nil logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
