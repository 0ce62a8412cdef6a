package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation configuration constants
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// Config describes logging for the stationreg CLI and serve daemon.
// When Path is set the log also goes to a rotating file with lumberjack
// semantics; stderr output is always on.
type Config struct {
	Level      string // "debug", "info", "warn", "error" (default info)
	Path       string // rotating log file; empty disables file logging
	MaxSizeMB  int    // megabytes before rotation (default 10)
	MaxBackups int    // number of backups to keep (default 3)
	MaxAgeDays int    // days to keep (default 7)
	Compress   bool   // gzip rotated files
	NoColor    bool   // disable ANSI colors on stderr
}

// New builds a slog.Logger per the config. The returned closer is non-nil
// when a rotating file is attached and must be closed on shutdown.
func (c Config) New() (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Level)}

	var fileW *lj.Logger
	if c.Path != "" {
		fileW = &lj.Logger{
			Filename:   c.Path,
			MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   c.Compress,
		}
	}

	var h slog.Handler
	switch {
	case fileW != nil:
		w := io.MultiWriter(os.Stderr, fileW)
		h = slog.NewTextHandler(w, opts)
	case c.NoColor:
		h = slog.NewTextHandler(os.Stderr, opts)
	default:
		h = NewColorTextHandler(os.Stderr, opts, true)
	}

	if fileW != nil {
		return slog.New(h), fileW
	}
	return slog.New(h), nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
