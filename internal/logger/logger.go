// Package logger holds the process-wide structured logger used by the codec
// and the CLI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// L is the global logger instance. It discards all output until Init is called.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	File    string     // JSON log file; empty means text on Stderr
	Level   slog.Level // Minimum log level
	Stderr  io.Writer  // Text output target. Default: os.Stderr
}

// Init configures logging. The returned close function releases the log
// file, if one was opened.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return noop, nil
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.File == "" {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		L = slog.New(slog.NewTextHandler(w, handlerOpts))
		return noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return noop, fmt.Errorf("logger: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return noop, fmt.Errorf("logger: %w", err)
	}
	L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	return f.Close, nil
}
