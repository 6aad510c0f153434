package doctext

import (
	"encoding/json"
	"regexp"
)

// ManifestShape identifies the recognized source of a JSON manifest.
type ManifestShape string

// Known manifest shapes. Classification is all-or-nothing per top-level
// key presence; the shapes are mutually exclusive by construction of the
// known sources.
const (
	// ShapeTedRelease is a TED OCDS release package: document URLs live at
	// releases[].tender.documents[].url.
	ShapeTedRelease ManifestShape = "ted_release"

	// ShapeBeschaLinks is a Bescha notice: a single optional German PDF
	// URL lives at links.pdf.DEU.
	ShapeBeschaLinks ManifestShape = "bescha_links"

	// ShapeUnrecognized carries no URLs; ingestion logs it as a no-op.
	ShapeUnrecognized ManifestShape = "unrecognized"
)

// Manifest is a classified JSON manifest with the remote document URLs it
// references.
type Manifest struct {
	Shape ManifestShape
	URLs  []string
}

// objectIDToken matches the textual form of a database object identifier
// that one upstream source embeds inside otherwise valid JSON.
var objectIDToken = regexp.MustCompile(`ObjectId\("([0-9a-fA-F]+)"\)`)

// RewriteObjectIDs rewrites ObjectId("<hex>") tokens to plain quoted hex
// strings so the document parses as standard JSON.
func RewriteObjectIDs(raw []byte) []byte {
	return objectIDToken.ReplaceAll(raw, []byte(`"$1"`))
}

type tedManifest struct {
	Releases []struct {
		Tender struct {
			Documents []struct {
				URL string `json:"url"`
			} `json:"documents"`
		} `json:"tender"`
	} `json:"releases"`
}

type beschaManifest struct {
	Links struct {
		PDF map[string]string `json:"pdf"`
	} `json:"links"`
}

// ClassifyManifest parses a JSON manifest and classifies it into one of the
// known shapes, collecting the remote document URLs that shape carries.
// Rules are evaluated in order, first match wins:
//
//  1. A top-level "releases" key means TED: every release's tender documents
//     contribute their "url" field (documents lacking one are skipped).
//  2. Any other top-level object is Bescha: links.pdf.DEU, when present, is
//     the single URL. Its absence still matches the shape with no URLs.
//  3. Anything else is unrecognized.
//
// Returns EINVALID if the input is not valid JSON after object-identifier
// token rewriting.
func ClassifyManifest(raw []byte) (*Manifest, error) {
	cleaned := RewriteObjectIDs(raw)

	var top map[string]json.RawMessage
	if err := json.Unmarshal(cleaned, &top); err != nil {
		// Valid JSON that is not an object (array, scalar) is not an
		// error, just not a shape we know.
		var any json.RawMessage
		if json.Unmarshal(cleaned, &any) == nil && json.Valid(cleaned) {
			return &Manifest{Shape: ShapeUnrecognized}, nil
		}
		return nil, Errorf(EINVALID, "manifest is not valid JSON: %v", err)
	}

	if _, ok := top["releases"]; ok {
		var ted tedManifest
		if err := json.Unmarshal(cleaned, &ted); err != nil {
			return nil, Errorf(EINVALID, "malformed TED manifest: %v", err)
		}
		m := &Manifest{Shape: ShapeTedRelease}
		for _, release := range ted.Releases {
			for _, doc := range release.Tender.Documents {
				if doc.URL != "" {
					m.URLs = append(m.URLs, doc.URL)
				}
			}
		}
		return m, nil
	}

	// A missing or oddly-typed links tree still matches the shape with no
	// URLs; that is reported by the caller, not an error.
	var bescha beschaManifest
	if err := json.Unmarshal(cleaned, &bescha); err != nil {
		return &Manifest{Shape: ShapeBeschaLinks}, nil
	}
	m := &Manifest{Shape: ShapeBeschaLinks}
	if url := bescha.Links.PDF["DEU"]; url != "" {
		m.URLs = append(m.URLs, url)
	}
	return m, nil
}
