package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/meigma/renametar/internal/config"
)

// newLogger builds the command logger. With the auto format, a terminal gets
// slog.TextHandler and anything else (CI, pipes, files) gets JSON.
func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}

	text := format == config.LogFormatText
	if format == config.LogFormatAuto {
		text = isTerminal(w)
	}

	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
