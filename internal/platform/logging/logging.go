// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// If File is set, records are also written as JSON to a rotated file.
type Options struct {
	Level     string // debug|info|warn|error
	Format    string // text|json
	AddSource bool
	File      string
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	closer io.Closer
)

// L returns the application logger, falling back to slog.Default before Init.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Init configures the application logger and installs it as slog.Default.
func Init(opts Options) *slog.Logger {
	return InitWriter(os.Stderr, opts)
}

// InitWriter is Init with an explicit console writer.
func InitWriter(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level), AddSource: opts.AddSource}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, hopts)
	} else {
		console = slog.NewTextHandler(w, hopts)
	}

	handler := console
	var fileCloser io.Closer
	if path := strings.TrimSpace(opts.File); path != "" {
		lj := &lumberjack.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handler = &fanout{hs: []slog.Handler{console, slog.NewJSONHandler(lj, hopts)}}
		fileCloser = lj
	}

	l := slog.New(handler).With(slog.String("app", "chebyshev-board"))

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
	}
	logger = l
	closer = fileCloser
	mu.Unlock()

	slog.SetDefault(l)
	return l
}

// Close releases the rotated log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// ParseLevel converts a level name to slog.Level, defaulting to info.
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
