package doctext_test

import (
	"testing"

	"github.com/fwojciec/doctext"
	"github.com/stretchr/testify/assert"
)

func TestResource_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid resource", func(t *testing.T) {
		t.Parallel()

		res := &doctext.Resource{DatasetID: "ds1", Name: "report.pdf"}
		assert.NoError(t, res.Validate())
	})

	t.Run("missing dataset ID", func(t *testing.T) {
		t.Parallel()

		res := &doctext.Resource{Name: "report.pdf"}
		err := res.Validate()
		assert.Equal(t, doctext.EINVALID, doctext.ErrorCode(err))
	})

	t.Run("missing URL and name", func(t *testing.T) {
		t.Parallel()

		res := &doctext.Resource{DatasetID: "ds1"}
		err := res.Validate()
		assert.Equal(t, doctext.EINVALID, doctext.ErrorCode(err))
	})
}

func TestResource_Source(t *testing.T) {
	t.Parallel()

	t.Run("prefers URL", func(t *testing.T) {
		t.Parallel()

		res := &doctext.Resource{URL: "https://example.com/a.pdf", Name: "b.pdf"}
		assert.Equal(t, "https://example.com/a.pdf", res.Source())
	})

	t.Run("falls back to name", func(t *testing.T) {
		t.Parallel()

		res := &doctext.Resource{Name: "b.pdf"}
		assert.Equal(t, "b.pdf", res.Source())
	})
}

func TestTextArtifactName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/files/report.pdf?token=1", "report.txt"},
		{"scan.jpeg", "scan.txt"},
		{"no_extension", "no_extension.txt"},
		{"", "document.txt"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, doctext.TextArtifactName(tt.in), "input %q", tt.in)
	}
}
