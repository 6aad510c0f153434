package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/doctext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunChain(t *testing.T) {
	t.Parallel()

	t.Run("first strategy wins", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "in.bin", "payload")
		res, err := runChain(context.Background(), path, []strategy{
			{name: "first", fn: func(ctx context.Context, path string) (string, error) { return "ok", nil }},
			{name: "second", fn: func(ctx context.Context, path string) (string, error) { t.Fatal("second should not run"); return "", nil }},
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", res.Text)
		assert.Equal(t, "first", res.Strategy)
		assert.Empty(t, res.Warnings)
	})

	t.Run("advances to fallback on failure", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "in.bin", "payload")
		res, err := runChain(context.Background(), path, []strategy{
			{name: "first", fn: func(ctx context.Context, path string) (string, error) { return "", errors.New("nope") }},
			{name: "second", fn: func(ctx context.Context, path string) (string, error) { return "fallback", nil }},
		})

		require.NoError(t, err)
		assert.Equal(t, "fallback", res.Text)
		assert.Equal(t, "second", res.Strategy)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("composite failure carries every cause", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "in.bin", "payload")
		_, err := runChain(context.Background(), path, []strategy{
			{name: "first", fn: func(ctx context.Context, path string) (string, error) { return "", errors.New("cause one") }},
			{name: "second", fn: func(ctx context.Context, path string) (string, error) { return "", errors.New("cause two") }},
		})

		require.Error(t, err)
		assert.Equal(t, doctext.ECOMPOSITE, doctext.ErrorCode(err))
		assert.Contains(t, doctext.ErrorMessage(err), "cause one")
		assert.Contains(t, doctext.ErrorMessage(err), "cause two")
	})

	t.Run("missing file fails fast before any strategy", func(t *testing.T) {
		t.Parallel()

		_, err := runChain(context.Background(), filepath.Join(t.TempDir(), "missing.bin"), []strategy{
			{name: "first", fn: func(ctx context.Context, path string) (string, error) { t.Fatal("should not run"); return "", nil }},
		})

		assert.Equal(t, doctext.ENOTFOUND, doctext.ErrorCode(err))
	})

	t.Run("empty file fails fast before any strategy", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "empty.bin", "")
		_, err := runChain(context.Background(), path, []strategy{
			{name: "first", fn: func(ctx context.Context, path string) (string, error) { t.Fatal("should not run"); return "", nil }},
		})

		assert.Equal(t, doctext.EEMPTY, doctext.ErrorCode(err))
	})
}

func TestOCR_ImageText(t *testing.T) {
	t.Parallel()

	t.Run("missing engine is a distinct error kind", func(t *testing.T) {
		t.Parallel()

		ocr := NewOCR()
		ocr.lookPath = func(string) (string, error) { return "", errors.New("not found") }

		_, err := ocr.ImageText(context.Background(), "scan.png")

		assert.Equal(t, doctext.EENGINEMISSING, doctext.ErrorCode(err))
		assert.False(t, ocr.Available())
	})

	t.Run("engine failure reports stderr", func(t *testing.T) {
		t.Parallel()

		ocr := NewOCR()
		ocr.lookPath = func(string) (string, error) { return "/usr/bin/tesseract", nil }
		ocr.run = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return nil, []byte("Error in pixReadStream"), errors.New("exit status 1")
		}

		_, err := ocr.ImageText(context.Background(), "scan.png")

		assert.Equal(t, doctext.EENGINEFAILURE, doctext.ErrorCode(err))
		assert.Contains(t, doctext.ErrorMessage(err), "pixReadStream")
	})

	t.Run("recognized text is returned verbatim", func(t *testing.T) {
		t.Parallel()

		ocr := NewOCR()
		ocr.lookPath = func(string) (string, error) { return "/usr/bin/tesseract", nil }
		ocr.run = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			assert.Equal(t, []string{"scan.png", "stdout"}, args)
			return []byte("recognized text\n"), nil, nil
		}

		text, err := ocr.ImageText(context.Background(), "scan.png")

		require.NoError(t, err)
		assert.Equal(t, "recognized text\n", text)
	})
}

func TestLegacyDoc_Extract(t *testing.T) {
	t.Parallel()

	t.Run("catdoc output wins when it succeeds", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "old.doc", "binary")
		e := NewLegacyDoc()
		e.lookPath = func(string) (string, error) { return "/usr/bin/tool", nil }
		e.run = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			assert.Equal(t, "catdoc", name)
			return []byte("legacy text"), nil, nil
		}

		res, err := e.Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "legacy text", res.Text)
		assert.Equal(t, StrategyDocCatdoc, res.Strategy)
	})

	t.Run("falls back to antiword", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "old.doc", "binary")
		e := NewLegacyDoc()
		e.lookPath = func(string) (string, error) { return "/usr/bin/tool", nil }
		e.run = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			if name == "catdoc" {
				return nil, []byte("bad format"), errors.New("exit status 1")
			}
			return []byte("antiword text"), nil, nil
		}

		res, err := e.Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "antiword text", res.Text)
		assert.Equal(t, StrategyDocAntiword, res.Strategy)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("both failing raises a composite carrying both messages", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "old.doc", "binary")
		e := NewLegacyDoc()
		e.lookPath = func(string) (string, error) { return "", errors.New("not found") }

		_, err := e.Extract(context.Background(), path)

		require.Error(t, err)
		assert.Equal(t, doctext.ECOMPOSITE, doctext.ErrorCode(err))
		msg := doctext.ErrorMessage(err)
		assert.Contains(t, msg, "catdoc")
		assert.Contains(t, msg, "antiword")
	})
}

func TestPDF_QualityGate(t *testing.T) {
	t.Parallel()

	t.Run("usable text layer skips OCR", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "doc.pdf", "%PDF-1.4 stub")
		e := NewPDF(NewOCR(), nil)
		e.layerFn = func(path string) (string, error) { return "plenty of embedded text\n", nil }
		e.ocrFn = func(ctx context.Context, path string) (string, error) { t.Fatal("OCR should not run"); return "", nil }

		res, err := e.Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, StrategyPDFTextLayer, res.Strategy)
		assert.Equal(t, "plenty of embedded text\n", res.Text)
	})

	t.Run("short text layer falls through to OCR", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "doc.pdf", "%PDF-1.4 stub")
		e := NewPDF(NewOCR(), nil)
		e.layerFn = func(path string) (string, error) { return "\n\n", nil }
		e.ocrFn = func(ctx context.Context, path string) (string, error) { return "scanned page text", nil }

		res, err := e.Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, StrategyPDFOCR, res.Strategy)
		assert.Equal(t, "scanned page text", res.Text)
	})

	t.Run("OCR failure yields empty text with a warning", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "doc.pdf", "%PDF-1.4 stub")
		e := NewPDF(NewOCR(), nil)
		e.layerFn = func(path string) (string, error) { return "", nil }
		e.ocrFn = func(ctx context.Context, path string) (string, error) {
			return "", doctext.Errorf(doctext.EENGINEMISSING, "tesseract OCR is not installed or not in system PATH")
		}

		res, err := e.Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, StrategyPDFOCR, res.Strategy)
		assert.Empty(t, res.Text)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("text layer failure propagates", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "doc.pdf", "%PDF-1.4 stub")
		e := NewPDF(NewOCR(), nil)
		e.layerFn = func(path string) (string, error) { return "", errors.New("bad xref table") }

		_, err := e.Extract(context.Background(), path)

		require.Error(t, err)
		assert.Equal(t, doctext.EENGINEFAILURE, doctext.ErrorCode(err))
	})
}
