// Package extract implements per-format text extraction strategy chains.
//
// Each canonical format gets one doctext.Extractor. A chain tries its
// strategies in order and advances on failure (or, for PDF, on a quality
// gate); when every strategy fails the returned error carries all underlying
// causes.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fwojciec/doctext"
)

// Registry builds the default extractor set, one per canonical format.
// The logger is shared by strategies that log-and-continue instead of
// failing (e.g., the PDF OCR fallback).
func Registry(logger *slog.Logger) map[doctext.Format]doctext.Extractor {
	ocr := NewOCR()
	return map[doctext.Format]doctext.Extractor{
		doctext.FormatPDF:         NewPDF(ocr, logger),
		doctext.FormatDocx:        NewDocx(),
		doctext.FormatDoc:         NewLegacyDoc(),
		doctext.FormatSpreadsheet: NewSpreadsheet(),
		doctext.FormatImage:       NewImage(ocr),
	}
}

// precheck fails fast on structurally inapplicable inputs so opaque
// third-party errors never reach the caller for trivial cases.
func precheck(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return doctext.Errorf(doctext.ENOTFOUND, "file not found: %s", path)
	}
	if err != nil {
		return doctext.Errorf(doctext.EINTERNAL, "cannot stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		return doctext.Errorf(doctext.EEMPTY, "file is empty: %s", path)
	}
	return nil
}

// strategy is one extraction attempt in a chain.
type strategy struct {
	name string
	fn   func(ctx context.Context, path string) (string, error)
}

// runChain tries each strategy in order, advancing on failure. The result
// carries the name of the strategy that succeeded. When every strategy
// fails the composite error message concatenates all underlying causes.
func runChain(ctx context.Context, path string, strategies []strategy) (*doctext.ExtractionResult, error) {
	if err := precheck(path); err != nil {
		return nil, err
	}

	var causes []string
	var warnings []string
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, doctext.Errorf(doctext.ETIMEOUT, "extraction canceled: %v", err)
		}
		text, err := s.fn(ctx, path)
		if err == nil {
			return &doctext.ExtractionResult{
				Text:     text,
				Strategy: s.name,
				Warnings: warnings,
			}, nil
		}
		causes = append(causes, fmt.Sprintf("%s: %s", s.name, errText(err)))
		warnings = append(warnings, fmt.Sprintf("%s failed, trying next strategy", s.name))
	}

	return nil, doctext.Errorf(doctext.ECOMPOSITE, "all extraction strategies failed: %s", strings.Join(causes, "; "))
}

// errText prefers the structured message of application errors but keeps
// raw strategy-local errors intact: composite messages must carry every
// underlying cause verbatim.
func errText(err error) string {
	if e, ok := err.(*doctext.Error); ok {
		return e.Message
	}
	return err.Error()
}
