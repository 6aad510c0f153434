// Package mock provides mock implementations of doctext interfaces for
// testing.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/doctext"
)

var _ doctext.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of doctext.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*doctext.FetchedFile, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*doctext.FetchedFile, error) {
	return f.FetchFn(ctx, url)
}

var _ doctext.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of doctext.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, path string) (*doctext.ExtractionResult, error)
}

func (e *Extractor) Extract(ctx context.Context, path string) (*doctext.ExtractionResult, error) {
	return e.ExtractFn(ctx, path)
}

var _ doctext.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is a mock implementation of doctext.MetadataStore.
type MetadataStore struct {
	FindResourceByIDFn func(ctx context.Context, id string) (*doctext.Resource, error)
	CreateResourceFn   func(ctx context.Context, res *doctext.Resource) error
	UpdateExtrasFn     func(ctx context.Context, id string, extras map[string]string) error
}

func (s *MetadataStore) FindResourceByID(ctx context.Context, id string) (*doctext.Resource, error) {
	return s.FindResourceByIDFn(ctx, id)
}

func (s *MetadataStore) CreateResource(ctx context.Context, res *doctext.Resource) error {
	return s.CreateResourceFn(ctx, res)
}

func (s *MetadataStore) UpdateExtras(ctx context.Context, id string, extras map[string]string) error {
	return s.UpdateExtrasFn(ctx, id, extras)
}

var _ doctext.FileStore = (*FileStore)(nil)

// FileStore is a mock implementation of doctext.FileStore.
type FileStore struct {
	PathFn func(id string) (string, error)
	SaveFn func(id string, r io.Reader) (string, error)
}

func (s *FileStore) Path(id string) (string, error) {
	return s.PathFn(id)
}

func (s *FileStore) Save(id string, r io.Reader) (string, error) {
	return s.SaveFn(id, r)
}

var _ doctext.Uploader = (*Uploader)(nil)

// Uploader is a mock implementation of doctext.Uploader.
type Uploader struct {
	UploadFn func(ctx context.Context, localPath, datasetID, name, mimeType string) (string, error)
}

func (u *Uploader) Upload(ctx context.Context, localPath, datasetID, name, mimeType string) (string, error) {
	return u.UploadFn(ctx, localPath, datasetID, name, mimeType)
}

var _ doctext.Processor = (*Processor)(nil)

// Processor is a mock implementation of doctext.Processor.
type Processor struct {
	ProcessResourceFn func(ctx context.Context, id string) error
	IngestManifestFn  func(ctx context.Context, raw []byte, datasetID string) []doctext.IngestOutcome
}

func (p *Processor) ProcessResource(ctx context.Context, id string) error {
	return p.ProcessResourceFn(ctx, id)
}

func (p *Processor) IngestManifest(ctx context.Context, raw []byte, datasetID string) []doctext.IngestOutcome {
	return p.IngestManifestFn(ctx, raw, datasetID)
}
