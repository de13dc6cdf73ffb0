// Package logger builds the process-wide slog.Logger from configuration.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level   string
	Format  string
	Logfile string
}

// New returns a logger for options. Unknown levels or formats and an
// unwritable log file fall back to defaults and are reported through the
// returned logger.
func New(options Options) *slog.Logger {
	var opts slog.HandlerOptions
	switch strings.ToLower(options.Level) {
	case "", "info":
		opts.Level = slog.LevelInfo
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		bad := options.Level
		options.Level = ""
		logger := New(options)
		logger.Warn("could not parse logger level", "level", bad)
		return logger
	}

	var output io.Writer
	switch options.Logfile {
	case "":
		output = os.Stdout
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		f, err := os.OpenFile(options.Logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			options.Logfile = ""
			logger := New(options)
			logger.Warn("could not open logger output", "err", err)
			return logger
		}
		output = f
	}

	return slog.New(newHandler(output, options.Format, &opts))
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	case "", "text":
		return slog.NewTextHandler(w, opts)
	default:
		h := slog.NewTextHandler(w, opts)
		slog.New(h).Warn("could not parse logger format", "format", format)
		return h
	}
}
