// Package logging configures the process-wide slog logger: colored tint
// output on a terminal, JSON otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// ParseLevel maps debug, info, warn and error to a slog level. Anything
// else is info.
func ParseLevel(s string) slog.Level {
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

// NewHandler builds a handler for w. format is text, json or auto; auto
// picks tint when w is a terminal.
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		return newTint(w, level, false)
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return newTint(w, level, true)
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

func newTint(w io.Writer, level slog.Level, color bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
		NoColor:    !color,
	})
}

// Setup installs the default logger on stderr and returns it.
func Setup(level, format string) *slog.Logger {
	log := slog.New(NewHandler(os.Stderr, ParseLevel(level), format))
	slog.SetDefault(log)
	return log
}
