package extract

import (
	"archive/zip"
	"context"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/fwojciec/doctext"
)

// StrategyDocxParagraphs identifies the docx paragraph extractor.
const StrategyDocxParagraphs = "docx-paragraphs"

// Ensure Docx implements doctext.Extractor at compile time.
var _ doctext.Extractor = (*Docx)(nil)

// Docx extracts text from Word .docx files by concatenating paragraph text
// from word/document.xml, newline-joined. There is no fallback; a failure
// propagates.
type Docx struct{}

// NewDocx creates a Docx extractor.
func NewDocx() *Docx {
	return &Docx{}
}

// Extract returns the document's paragraph text.
func (e *Docx) Extract(ctx context.Context, path string) (*doctext.ExtractionResult, error) {
	if err := precheck(path); err != nil {
		return nil, err
	}

	data, err := readArchiveFile(path, "word/document.xml")
	if err != nil {
		return nil, doctext.Errorf(doctext.EENGINEFAILURE, "cannot read docx: %s", errText(err))
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, doctext.Errorf(doctext.EENGINEFAILURE, "cannot parse docx document XML: %v", err)
	}

	var paragraphs []string
	walkElements(doc.Root(), func(el *etree.Element) {
		if el.Tag != "p" {
			return
		}
		var b strings.Builder
		walkElements(el, func(run *etree.Element) {
			if run.Tag == "t" {
				b.WriteString(run.Text())
			}
		})
		paragraphs = append(paragraphs, b.String())
	})

	return &doctext.ExtractionResult{
		Text:     strings.Join(paragraphs, "\n"),
		Strategy: StrategyDocxParagraphs,
	}, nil
}

// walkElements visits every descendant element of root in document order.
func walkElements(root *etree.Element, fn func(*etree.Element)) {
	if root == nil {
		return
	}
	for _, child := range root.ChildElements() {
		fn(child)
		walkElements(child, fn)
	}
}

// readArchiveFile returns the contents of one file inside a zip archive.
func readArchiveFile(archivePath, name string) ([]byte, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
