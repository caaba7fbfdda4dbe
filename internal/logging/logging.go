// Package logging configures the global slog logger for clipbox binaries.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// ParseLevel converts a string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Setup configures the global slog logger. format is "auto", "text", or
// "json"; auto picks tinted text on a terminal and JSON otherwise. Call once
// after flag parsing.
func Setup(format string, level slog.Level) {
	w := os.Stderr
	useTint := false
	switch strings.ToLower(format) {
	case "text", "tint", "human":
		useTint = true
	case "json":
	default: // auto
		useTint = isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	}

	var h slog.Handler
	if useTint {
		h = tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(h))
}
