package ingest

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/fwojciec/doctext"
	"golang.org/x/sync/errgroup"
)

// IngestManifest resolves a JSON manifest into remote document URLs and
// fetches and processes each one, best-effort: a URL's failure is recorded
// in its outcome and never aborts its siblings. Duplicate URLs within one
// manifest are fetched once.
func (p *Processor) IngestManifest(ctx context.Context, raw []byte, datasetID string) []doctext.IngestOutcome {
	manifest, err := doctext.ClassifyManifest(raw)
	if err != nil {
		return []doctext.IngestOutcome{{Err: err}}
	}

	if len(manifest.URLs) == 0 {
		p.logger.Info("manifest carries no document URLs", "shape", manifest.Shape)
		return nil
	}

	urls := dedupe(manifest.URLs)
	p.logger.Info("ingesting manifest",
		"shape", manifest.Shape,
		"urls", len(urls),
		"duplicates", len(manifest.URLs)-len(urls),
	)

	outcomes := make([]doctext.IngestOutcome, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, url := range urls {
		g.Go(func() error {
			outcomes[i] = doctext.IngestOutcome{URL: url, Err: p.fetchAndProcess(ctx, url, datasetID)}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in outcomes

	return outcomes
}

// dedupe filters repeated URLs while preserving first-seen order. The set
// is exact: a distinct URL must never be dropped without an outcome.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, url := range urls {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		unique = append(unique, url)
	}
	return unique
}

// fetchAndProcess downloads one manifest document, registers it as a new
// resource with a stored payload, and runs extraction on it. The download
// scratch file is removed regardless of outcome.
func (p *Processor) fetchAndProcess(ctx context.Context, url, datasetID string) error {
	file, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer os.Remove(file.Path)

	// The fetcher's derived name carries a forced extension; the URL alone
	// may not (extensionless download endpoints), so the declared format
	// comes from the name.
	res := &doctext.Resource{
		DatasetID: datasetID,
		Name:      file.Name,
		URL:       url,
		Format:    strings.TrimPrefix(path.Ext(file.Name), "."),
	}
	if err := p.store.CreateResource(ctx, res); err != nil {
		return doctext.Errorf(doctext.EPERSIST, "cannot register fetched document %s: %v", url, err)
	}

	payload, err := os.Open(file.Path)
	if err != nil {
		return doctext.Errorf(doctext.EINTERNAL, "cannot reopen download %s: %v", file.Path, err)
	}
	defer payload.Close()

	saved, err := p.files.Save(res.ID, payload)
	if err != nil {
		return doctext.Errorf(doctext.EPERSIST, "cannot store payload for %s: %v", res.ID, err)
	}

	return p.processLocal(ctx, res, saved, true)
}
