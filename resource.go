package doctext

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// Resource represents a stored document file with its declared metadata.
// It is validated at the boundary where the host hands data to the pipeline.
type Resource struct {
	ID        string            `json:"id"`
	DatasetID string            `json:"datasetId"`
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	Format    string            `json:"format"` // declared label, possibly blank or wrong
	Extras    map[string]string `json:"extras"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Validate returns an error if the resource contains invalid fields.
func (r *Resource) Validate() error {
	if r.DatasetID == "" {
		return Errorf(EINVALID, "resource dataset ID required")
	}
	if r.URL == "" && r.Name == "" {
		return Errorf(EINVALID, "resource URL or name required")
	}
	return nil
}

// Source returns the URL of the resource, falling back to its name.
// It is the basis for extension inference and output file naming.
func (r *Resource) Source() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Name
}

// ExtractionResult holds the text extracted from a document.
// Text may be an empty string; that is a valid result, distinct from failure.
type ExtractionResult struct {
	// Text is the extracted machine-readable text.
	Text string

	// Strategy identifies the extraction strategy that produced the text.
	Strategy string

	// Warnings records non-fatal problems encountered along the way,
	// in the order they occurred.
	Warnings []string
}

// ExtrasTextKey is the metadata key the pipeline writes extraction results
// under.
const ExtrasTextKey = "extracted_text_data"

// TextRecord is the JSON-encoded value stored under ExtrasTextKey.
// When the extracted text is uploaded as a separate artifact only the
// length is recorded; when embedded, the full text and a record version
// are included.
type TextRecord struct {
	TextLength     string `json:"text_length"`
	ExtractedText  string `json:"extracted_text,omitempty"`
	ExtractionDate string `json:"extraction_date"`
	ContentHash    string `json:"content_hash,omitempty"`
	Version        string `json:"version,omitempty"`
}

// TextArtifactName derives the display name for an uploaded text artifact
// from the source file name or URL: base name with the extension swapped
// for .txt.
func TextArtifactName(sourceNameOrURL string) string {
	base := path.Base(stripQuery(sourceNameOrURL))
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	return strings.TrimSuffix(base, path.Ext(base)) + ".txt"
}

// Extractor extracts text from a local document file.
// Implementations cover one canonical format each and run the format's
// strategy chain internally.
type Extractor interface {
	// Extract reads the file at path and returns the extracted text.
	// Collaborator failures are returned as coded errors, never raw
	// library errors.
	Extract(ctx context.Context, path string) (*ExtractionResult, error)
}

// FetchedFile is a downloaded document in a scratch location. Ownership
// transfers to the caller, which must delete Path after use regardless of
// outcome.
type FetchedFile struct {
	// Path is a uniquely-named temporary file holding the download.
	Path string

	// Name is the suggested original filename, derived from response
	// headers or the URL.
	Name string
}

// Fetcher downloads remote documents to local scratch files.
type Fetcher interface {
	// Fetch downloads the URL to a temporary file.
	// Timeouts surface as ETIMEOUT, other transport and HTTP failures
	// as EUNAVAILABLE.
	Fetch(ctx context.Context, url string) (*FetchedFile, error)
}

// MetadataStore persists resources and their metadata. It is the pipeline's
// only side-effecting consumer besides the Uploader.
//
// UpdateExtras is a non-atomic read-merge-write from the pipeline's
// perspective: callers invoking the pipeline concurrently for the same
// resource must serialize those calls.
type MetadataStore interface {
	// FindResourceByID retrieves a resource by ID.
	// Returns ENOTFOUND if the resource does not exist.
	FindResourceByID(ctx context.Context, id string) (*Resource, error)

	// CreateResource creates a new resource, assigning its ID.
	CreateResource(ctx context.Context, res *Resource) error

	// UpdateExtras merges the given keys into the resource's extras,
	// last writer wins per key.
	UpdateExtras(ctx context.Context, id string, extras map[string]string) error
}

// ResourceFilter represents a filter used by FindResources.
type ResourceFilter struct {
	ID        *string
	DatasetID *string
	Format    *string

	Limit  int
	Offset int
}

// FileStore resolves resource IDs to local payload files.
type FileStore interface {
	// Path returns the local path of the resource's payload.
	// Returns ENOTFOUND if no payload has been stored.
	Path(id string) (string, error)

	// Save stores a payload for the resource and returns its path.
	Save(id string, r io.Reader) (string, error)
}

// Uploader publishes a local file as a new resource in the hosting platform.
type Uploader interface {
	// Upload sends the file as a multipart resource-creation request and
	// returns the new resource ID. Rejections surface as EPERSIST.
	Upload(ctx context.Context, localPath, datasetID, name, mimeType string) (string, error)
}

// Processor runs the extraction pipeline.
type Processor interface {
	// ProcessResource resolves the resource's format, extracts text and
	// persists the outcome. Returns EUNSUPPORTED when the resource has no
	// extraction strategy; callers should treat that as a skip.
	ProcessResource(ctx context.Context, id string) error

	// IngestManifest resolves a JSON manifest into remote document URLs
	// and fetches and processes each one, best-effort. One URL's failure
	// never aborts its siblings.
	IngestManifest(ctx context.Context, raw []byte, datasetID string) []IngestOutcome
}

// IngestOutcome is the terminal result of one manifest URL.
type IngestOutcome struct {
	URL string
	Err error
}
