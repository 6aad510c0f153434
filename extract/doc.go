package extract

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/fwojciec/doctext"
)

// DefaultConvertTimeout bounds one external converter invocation.
const DefaultConvertTimeout = 60 * time.Second

// Strategy identifiers for the legacy .doc chain.
const (
	StrategyDocCatdoc   = "doc-catdoc"
	StrategyDocAntiword = "doc-antiword"
)

// Ensure LegacyDoc implements doctext.Extractor at compile time.
var _ doctext.Extractor = (*LegacyDoc)(nil)

// LegacyDoc extracts text from Word 97-2003 .doc files by invoking external
// converters: catdoc first, antiword as the fallback. Both failing raises a
// composite failure carrying both underlying messages.
type LegacyDoc struct {
	timeout time.Duration

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
}

// LegacyDocOption configures a LegacyDoc extractor.
type LegacyDocOption func(*LegacyDoc)

// WithConvertTimeout overrides the per-converter timeout.
func WithConvertTimeout(d time.Duration) LegacyDocOption {
	return func(e *LegacyDoc) { e.timeout = d }
}

// NewLegacyDoc creates a LegacyDoc extractor.
func NewLegacyDoc(opts ...LegacyDocOption) *LegacyDoc {
	e := &LegacyDoc{
		timeout:  DefaultConvertTimeout,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the converter chain.
func (e *LegacyDoc) Extract(ctx context.Context, path string) (*doctext.ExtractionResult, error) {
	return runChain(ctx, path, []strategy{
		{name: StrategyDocCatdoc, fn: e.converter("catdoc")},
		{name: StrategyDocAntiword, fn: e.converter("antiword")},
	})
}

// converter returns a strategy function invoking the named external tool
// with the file as its only argument, capturing stdout as the text.
func (e *LegacyDoc) converter(tool string) func(ctx context.Context, path string) (string, error) {
	return func(ctx context.Context, path string) (string, error) {
		if _, err := e.lookPath(tool); err != nil {
			return "", doctext.Errorf(doctext.EENGINEMISSING, "%s is not installed or not in system PATH", tool)
		}

		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		stdout, stderr, err := e.run(ctx, tool, path)
		if err != nil {
			msg := strings.TrimSpace(string(stderr))
			if msg == "" {
				msg = err.Error()
			}
			return "", doctext.Errorf(doctext.EENGINEFAILURE, "%s failed: %s", tool, msg)
		}
		return string(stdout), nil
	}
}
