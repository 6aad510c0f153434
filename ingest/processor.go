// Package ingest orchestrates the extraction pipeline: it resolves a
// resource's format, runs the matching extraction strategy chain, and
// persists the outcome. JSON manifests take a detour through remote
// fetching before rejoining the same path.
package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/doctext"
)

// DefaultConcurrency bounds parallel manifest downloads.
const DefaultConcurrency = 4

// textRecordVersion tags embedded-text records so consumers can detect the
// record layout.
const textRecordVersion = "1.0"

// Ensure Processor implements doctext.Processor at compile time.
var _ doctext.Processor = (*Processor)(nil)

// Processor runs the extraction pipeline against stored resources.
type Processor struct {
	store      doctext.MetadataStore
	files      doctext.FileStore
	fetcher    doctext.Fetcher
	extractors map[doctext.Format]doctext.Extractor

	uploader    doctext.Uploader
	embedText   bool
	concurrency int
	logger      *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithUploader publishes extracted text as separate .txt artifacts instead
// of embedding it in resource metadata.
func WithUploader(u doctext.Uploader) Option {
	return func(p *Processor) { p.uploader = u }
}

// WithEmbedText embeds the full extracted text in the metadata record.
// This is the mode of last resort for hosts without artifact storage.
func WithEmbedText() Option {
	return func(p *Processor) { p.embedText = true }
}

// WithConcurrency bounds parallel manifest downloads. Defaults to
// DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(p *Processor) { p.concurrency = n }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// NewProcessor creates a Processor over the given collaborators. Text is
// embedded in metadata unless an Uploader is configured via WithUploader.
func NewProcessor(store doctext.MetadataStore, files doctext.FileStore, fetcher doctext.Fetcher, extractors map[doctext.Format]doctext.Extractor, opts ...Option) *Processor {
	p := &Processor{
		store:       store,
		files:       files,
		fetcher:     fetcher,
		extractors:  extractors,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.uploader == nil {
		p.embedText = true
	}
	return p
}

// ProcessResource resolves the resource's format, extracts text and persists
// the outcome. Returns EUNSUPPORTED when no extraction strategy covers the
// resource; callers should treat that as a skip, not a failure.
func (p *Processor) ProcessResource(ctx context.Context, id string) error {
	res, err := p.store.FindResourceByID(ctx, id)
	if err != nil {
		return err
	}

	path, err := p.files.Path(res.ID)
	if err != nil {
		return err
	}

	return p.processLocal(ctx, res, path, false)
}

// processLocal runs the resolve, dispatch and persist steps against a local
// payload file. Files reached through a manifest set nested to keep manifest
// resolution from recursing.
func (p *Processor) processLocal(ctx context.Context, res *doctext.Resource, path string, nested bool) error {
	format := doctext.ResolveFormat(res.Format, res.Source())

	if format == doctext.FormatManifest {
		if nested {
			return doctext.Errorf(doctext.EUNSUPPORTED, "nested manifest %q is not ingested", res.Source())
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return doctext.Errorf(doctext.EINTERNAL, "cannot read manifest %s: %v", path, err)
		}
		for _, outcome := range p.IngestManifest(ctx, raw, res.DatasetID) {
			if outcome.Err != nil {
				p.logger.Warn("manifest document failed", "url", outcome.URL, "error", outcome.Err)
			}
		}
		return nil
	}

	extractor, ok := p.extractors[format]
	if !ok {
		return doctext.Errorf(doctext.EUNSUPPORTED, "no extraction strategy for %q (declared format %q)", res.Source(), res.Format)
	}

	result, err := extractor.Extract(ctx, path)
	if err != nil {
		return err
	}

	p.logger.Info("text extracted",
		"resource", res.ID,
		"strategy", result.Strategy,
		"chars", len(result.Text),
		"warnings", len(result.Warnings),
	)

	return p.persist(ctx, res, result)
}

// persist records the extraction outcome in the resource's extras and, in
// upload mode, publishes the text as a sibling .txt artifact first.
func (p *Processor) persist(ctx context.Context, res *doctext.Resource, result *doctext.ExtractionResult) error {
	record := doctext.TextRecord{
		TextLength:     strconv.Itoa(len(result.Text)),
		ExtractionDate: time.Now().UTC().Format(time.RFC3339),
		ContentHash:    strconv.FormatUint(xxhash.Sum64String(result.Text), 16),
	}

	if p.embedText {
		record.ExtractedText = result.Text
		record.Version = textRecordVersion
	} else {
		name := doctext.TextArtifactName(res.Source())
		if err := p.uploadText(ctx, res, result.Text, name); err != nil {
			return err
		}
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return doctext.Errorf(doctext.EINTERNAL, "cannot encode text record: %v", err)
	}

	if err := p.store.UpdateExtras(ctx, res.ID, map[string]string{doctext.ExtrasTextKey: string(encoded)}); err != nil {
		return doctext.Errorf(doctext.EPERSIST, "cannot persist extraction result for %s: %v", res.ID, err)
	}
	return nil
}

// uploadText publishes extracted text as a temporary local file pushed
// through the Uploader. The scratch file is removed regardless of outcome.
func (p *Processor) uploadText(ctx context.Context, res *doctext.Resource, text, name string) error {
	tmp, err := os.CreateTemp("", "doctext-artifact-*.txt")
	if err != nil {
		return doctext.Errorf(doctext.EINTERNAL, "cannot create artifact scratch file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return doctext.Errorf(doctext.EINTERNAL, "cannot write artifact scratch file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return doctext.Errorf(doctext.EINTERNAL, "cannot close artifact scratch file: %v", err)
	}

	id, err := p.uploader.Upload(ctx, tmp.Name(), res.DatasetID, name, "text/plain")
	if err != nil {
		return err
	}

	p.logger.Info("text artifact uploaded", "resource", res.ID, "artifact", id, "name", name)
	return nil
}
