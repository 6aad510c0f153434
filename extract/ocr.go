package extract

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/fwojciec/doctext"
)

// DefaultOCRTimeout bounds a single tesseract invocation.
const DefaultOCRTimeout = 60 * time.Second

// OCR drives the tesseract engine through its command-line interface.
// The corpus of inputs is uncontrolled, so every invocation is bounded
// by a timeout.
type OCR struct {
	binary  string
	timeout time.Duration

	// lookPath and run are swappable for tests.
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
}

// OCROption configures an OCR engine.
type OCROption func(*OCR)

// WithOCRBinary overrides the tesseract binary name or path.
func WithOCRBinary(bin string) OCROption {
	return func(o *OCR) { o.binary = bin }
}

// WithOCRTimeout overrides the per-invocation timeout.
func WithOCRTimeout(d time.Duration) OCROption {
	return func(o *OCR) { o.timeout = d }
}

// NewOCR creates an OCR engine wrapper.
func NewOCR(opts ...OCROption) *OCR {
	o := &OCR{
		binary:   "tesseract",
		timeout:  DefaultOCRTimeout,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Available reports whether the engine binary is installed.
func (o *OCR) Available() bool {
	_, err := o.lookPath(o.binary)
	return err == nil
}

// ImageText runs optical character recognition on the image at path.
// A missing engine and an engine-internal failure are distinguished
// error kinds.
func (o *OCR) ImageText(ctx context.Context, path string) (string, error) {
	if _, err := o.lookPath(o.binary); err != nil {
		return "", errEngineMissing()
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	// "stdout" makes tesseract write recognized text to standard output.
	stdout, stderr, err := o.run(ctx, o.binary, path, "stdout")
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return "", errEngineFailure(msg)
	}
	return string(stdout), nil
}

func errEngineMissing() error {
	return doctext.Errorf(doctext.EENGINEMISSING, "tesseract OCR is not installed or not in system PATH")
}

func errEngineFailure(msg string) error {
	return doctext.Errorf(doctext.EENGINEFAILURE, "tesseract OCR failed: %s", msg)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.Bytes(), errBuf.Bytes(), err
}
