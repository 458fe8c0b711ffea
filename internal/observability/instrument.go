package observability

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Instrument installs the process-wide logger. Records are enriched with
// trace correlation attributes when a request carried W3C trace context.
func Instrument(level slog.Level, logFormat string) error {
	handler, err := newStdoutHandler(level, logFormat)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(newTraceContextHandler(handler)))

	return nil
}

// newStdoutHandler creates a handler for human-readable logs.
func newStdoutHandler(level slog.Level, logFormat string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: json, text)", logFormat)
	}

	return handler, nil
}

// ParseLevel maps a config level string to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q (expected: debug, info, warn, error)", s)
	}
}
