package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	appLogging "github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/config"
)

// SlogLogger adapts a slog.Logger to the application ContainerLogger
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing slog logger
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// Log writes one record. Metadata keys are emitted in sorted order.
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}
	l.logger.LogAttrs(context.Background(), slogLevel(level), message, attrs...)
}

// Slog returns the wrapped logger
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

func slogLevel(level string) slog.Level {
	switch level {
	case appLogging.LevelDebug:
		return slog.LevelDebug
	case appLogging.LevelWarn:
		return slog.LevelWarn
	case appLogging.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the process logger from configuration. The returned closer
// releases the log file when output is "file".
func New(cfg *config.LoggingConfig) (*SlogLogger, io.Closer, error) {
	var out io.Writer
	var closer io.Closer = nopCloser{}

	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	default:
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.IncludeCaller,
	}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return NewSlogLogger(slog.New(handler)), closer, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
