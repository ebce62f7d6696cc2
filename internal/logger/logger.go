// Package logger holds the process-wide slog logger. Importing packages
// log through Log without caring whether Initialize ran; before it does,
// a text handler at info level is in place.
package logger

import (
	"log/slog"
	"os"
)

var Log *slog.Logger

func init() {
	Initialize("info", false)
}

// Initialize replaces the global logger. level is one of debug, info,
// warn, error; anything else falls back to info. useJSON switches the
// text handler for a JSON one, for log shippers.
func Initialize(level string, useJSON bool) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if useJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return parsed
}
