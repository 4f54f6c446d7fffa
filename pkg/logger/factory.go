package logger

import (
	"log/slog"
	"os"
)

// New creates a JSON logger on stdout with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}), extractors...)
}

// NewWithHandler wraps h so every record also carries the extracted attributes.
func NewWithHandler(h slog.Handler, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(h, extractors...))
}
