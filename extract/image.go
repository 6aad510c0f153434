package extract

import (
	"context"

	"github.com/fwojciec/doctext"
)

// StrategyImageOCR identifies the whole-image OCR extractor.
const StrategyImageOCR = "image-ocr"

// Ensure Image implements doctext.Extractor at compile time.
var _ doctext.Extractor = (*Image)(nil)

// Image extracts text from raster images (jpeg, png, tiff, bmp, gif) via
// optical character recognition. A missing engine and an engine-internal
// failure are distinguished error kinds; any other failure propagates.
type Image struct {
	ocr *OCR
}

// NewImage creates an Image extractor using the given OCR engine.
func NewImage(ocr *OCR) *Image {
	return &Image{ocr: ocr}
}

// Extract recognizes the whole image.
func (e *Image) Extract(ctx context.Context, path string) (*doctext.ExtractionResult, error) {
	if err := precheck(path); err != nil {
		return nil, err
	}

	text, err := e.ocr.ImageText(ctx, path)
	if err != nil {
		return nil, err
	}
	return &doctext.ExtractionResult{Text: text, Strategy: StrategyImageOCR}, nil
}
