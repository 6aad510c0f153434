package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doctext"
)

// Ensure LoggingExtractor implements doctext.Extractor.
var _ doctext.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   doctext.Extractor
	format doctext.Format
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. The format is included
// in every log line so chains for different formats can be told apart.
func NewLoggingExtractor(next doctext.Extractor, format doctext.Format, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, format: format, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, path string) (result *doctext.ExtractionResult, err error) {
	defer func(begin time.Time) {
		chars := 0
		strategy := ""
		if result != nil {
			chars = len(result.Text)
			strategy = result.Strategy
		}
		e.logger.Info("text extraction",
			"format", e.format,
			"path", path,
			"strategy", strategy,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, path)
}

// WrapRegistry decorates every extractor in the registry with logging.
func WrapRegistry(extractors map[doctext.Format]doctext.Extractor, logger *slog.Logger) map[doctext.Format]doctext.Extractor {
	wrapped := make(map[doctext.Format]doctext.Extractor, len(extractors))
	for format, extractor := range extractors {
		wrapped[format] = NewLoggingExtractor(extractor, format, logger)
	}
	return wrapped
}
