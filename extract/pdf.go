package extract

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/fwojciec/doctext"
)

// MinTextLayerLen is the quality gate for the PDF text layer: fewer
// characters than this means the PDF has no usable text layer (scanned or
// image-only) and the OCR fallback runs instead.
const MinTextLayerLen = 5

// Strategy identifiers reported in extraction results.
const (
	StrategyPDFTextLayer = "pdf-text-layer"
	StrategyPDFOCR       = "pdf-ocr"
)

// Ensure PDF implements doctext.Extractor at compile time.
var _ doctext.Extractor = (*PDF)(nil)

// PDF extracts text from PDF files: the embedded text layer first, and
// page-rendered OCR when the layer yields fewer than MinTextLayerLen
// characters. OCR is best-effort: its failures are logged and yield empty
// text rather than propagating.
type PDF struct {
	ocr    *OCR
	logger *slog.Logger

	// layerFn and ocrFn are swappable for tests.
	layerFn func(path string) (string, error)
	ocrFn   func(ctx context.Context, path string) (string, error)
}

// NewPDF creates a PDF extractor using the given OCR engine for the
// scanned-document fallback.
func NewPDF(ocr *OCR, logger *slog.Logger) *PDF {
	if logger == nil {
		logger = slog.Default()
	}
	e := &PDF{ocr: ocr, logger: logger}
	e.layerFn = readTextLayer
	e.ocrFn = e.ocrPages
	return e
}

// Extract reads the embedded text layer, falling back to per-page OCR when
// the layer is too short to be usable. A text-layer read failure is a hard
// failure; only the quality gate advances to OCR.
func (e *PDF) Extract(ctx context.Context, path string) (*doctext.ExtractionResult, error) {
	if err := precheck(path); err != nil {
		return nil, err
	}

	text, err := e.layerFn(path)
	if err != nil {
		return nil, doctext.Errorf(doctext.EENGINEFAILURE, "PDF text extraction failed: %s", errText(err))
	}
	if len(text) >= MinTextLayerLen {
		return &doctext.ExtractionResult{Text: text, Strategy: StrategyPDFTextLayer}, nil
	}

	var warnings []string
	ocrText, err := e.ocrFn(ctx, path)
	if err != nil {
		e.logger.Warn("pdf ocr fallback failed", "path", path, "err", err)
		warnings = append(warnings, fmt.Sprintf("OCR fallback failed: %s", errText(err)))
		ocrText = ""
	}
	return &doctext.ExtractionResult{Text: ocrText, Strategy: StrategyPDFOCR, Warnings: warnings}, nil
}

// readTextLayer concatenates the embedded text of every page, one page per
// line. The pdf library panics on some malformed files; those surface as
// errors here instead.
func readTextLayer(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not invalidate the layer.
			continue
		}
		b.WriteString(pageText)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ocrPages renders each page to an image and recognizes it, concatenating
// the per-page results with newlines.
func (e *PDF) ocrPages(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", doctext.Errorf(doctext.EENGINEFAILURE, "cannot render PDF pages: %v", err)
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", doctext.Errorf(doctext.ETIMEOUT, "OCR canceled: %v", err)
		}

		img, err := doc.Image(i)
		if err != nil {
			return "", doctext.Errorf(doctext.EENGINEFAILURE, "cannot render page %d: %v", i+1, err)
		}

		pageText, err := e.recognizeImage(ctx, img)
		if err != nil {
			return "", err
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

// recognizeImage writes the rendered page to a scratch PNG and runs the OCR
// engine on it. The scratch file is removed on every exit path.
func (e *PDF) recognizeImage(ctx context.Context, img image.Image) (string, error) {
	tmp, err := os.CreateTemp("", "doctext-page-*.png")
	if err != nil {
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot create scratch image: %v", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot encode page image: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot close scratch image: %v", err)
	}

	return e.ocr.ImageText(ctx, tmp.Name())
}
