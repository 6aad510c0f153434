package doctext

import (
	"path"
	"strings"
)

// Format is the canonical document-type tag used to select an extraction
// strategy chain. It is derived per call and never stored.
type Format string

// Canonical formats.
const (
	FormatPDF         Format = "pdf"
	FormatDoc         Format = "doc"
	FormatDocx        Format = "docx"
	FormatSpreadsheet Format = "spreadsheet"
	FormatImage       Format = "image"
	FormatManifest    Format = "manifest"
	FormatUnsupported Format = "unsupported"
)

// formatSynonyms maps declared format labels and file extensions to
// canonical formats. Labels not present here resolve to FormatUnsupported.
var formatSynonyms = map[string]Format{
	"pdf":  FormatPDF,
	"doc":  FormatDoc,
	"docx": FormatDocx,
	"xls":  FormatSpreadsheet,
	"xlsx": FormatSpreadsheet,
	"jpeg": FormatImage,
	"jpg":  FormatImage,
	"png":  FormatImage,
	"tiff": FormatImage,
	"tif":  FormatImage,
	"bmp":  FormatImage,
	"gif":  FormatImage,
	"json": FormatManifest,
}

// ResolveFormat reconciles a declared format label with the format inferred
// from the file name or URL extension and returns one canonical format.
//
// Declared metadata is frequently blank or generic (e.g., "data") while the
// extension is concrete evidence, so when the two disagree the extension
// wins — but only when the extension resolves to a known canonical format.
// A garbage extension never overrides a valid declared label.
//
// The resolution is a pure function of its inputs; file content is never
// consulted. FormatUnsupported is a skip signal, not an error.
func ResolveFormat(declared, sourceNameOrURL string) Format {
	declaredTag, declaredKnown := formatSynonyms[strings.ToLower(strings.TrimSpace(declared))]

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(stripQuery(sourceNameOrURL)), "."))
	extTag, extKnown := formatSynonyms[ext]

	if extKnown {
		return extTag
	}
	if declaredKnown {
		return declaredTag
	}
	return FormatUnsupported
}

// stripQuery removes a query string or fragment from a URL or file name.
func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}
