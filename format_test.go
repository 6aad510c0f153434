package doctext_test

import (
	"testing"

	"github.com/fwojciec/doctext"
	"github.com/stretchr/testify/assert"
)

func TestResolveFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		declared string
		source   string
		want     doctext.Format
	}{
		{
			name:     "extension overrides generic declared label",
			declared: "data",
			source:   "https://example.com/files/report.pdf",
			want:     doctext.FormatPDF,
		},
		{
			name:     "declared label wins when source has no extension",
			declared: "pdf",
			source:   "https://example.com/files/report",
			want:     doctext.FormatPDF,
		},
		{
			name:     "declared label wins over unknown extension",
			declared: "docx",
			source:   "report.zzz",
			want:     doctext.FormatDocx,
		},
		{
			name:     "extension overrides conflicting declared label",
			declared: "pdf",
			source:   "scan.jpg",
			want:     doctext.FormatImage,
		},
		{
			name:     "declared label is case-insensitive and trimmed",
			declared: "  XLSX ",
			source:   "",
			want:     doctext.FormatSpreadsheet,
		},
		{
			name:     "query string does not hide the extension",
			declared: "",
			source:   "https://example.com/doc.pdf?token=abc",
			want:     doctext.FormatPDF,
		},
		{
			name:     "xls and xlsx normalize to one spreadsheet tag",
			declared: "xls",
			source:   "ledger.xlsx",
			want:     doctext.FormatSpreadsheet,
		},
		{
			name:     "image synonyms map to one image tag",
			declared: "",
			source:   "page.tif",
			want:     doctext.FormatImage,
		},
		{
			name:     "json resolves to manifest",
			declared: "json",
			source:   "notice.json",
			want:     doctext.FormatManifest,
		},
		{
			name:     "neither signal known resolves to unsupported",
			declared: "csv",
			source:   "table.csv",
			want:     doctext.FormatUnsupported,
		},
		{
			name:     "both signals empty resolves to unsupported",
			declared: "",
			source:   "",
			want:     doctext.FormatUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, doctext.ResolveFormat(tt.declared, tt.source))
		})
	}
}
