// Package http provides HTTP implementations of the doctext remote
// boundaries: the document Fetcher, the artifact Uploader, and the host
// action endpoint.
package http

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/fwojciec/doctext"
)

// DefaultFetchTimeout is the default timeout for document downloads.
const DefaultFetchTimeout = 30 * time.Second

// DefaultDocumentName is the filename of last resort for downloads that
// carry no usable name anywhere.
const DefaultDocumentName = "document"

// Ensure Fetcher implements doctext.Fetcher at compile time.
var _ doctext.Fetcher = (*Fetcher)(nil)

// Fetcher downloads remote documents to uniquely-named temporary files.
// Transport failures retry with backoff; timeouts surface as ETIMEOUT and
// every other transport or HTTP failure as EUNAVAILABLE so batch ingestion
// can skip and continue.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	tempDir     string
	defaultExt  string
	retryDelays []time.Duration
	limiter     *HostLimiter
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the per-download timeout. Defaults to
// DefaultFetchTimeout (30s).
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.timeout = d }
}

// WithTempDir sets the scratch directory for downloads. Defaults to the
// system temp dir.
func WithTempDir(dir string) FetcherOption {
	return func(f *Fetcher) { f.tempDir = dir }
}

// WithDefaultExtension sets the extension forced onto derived filenames
// that don't already carry a recognized one. Defaults to ".pdf", the
// document class manifests reference.
func WithDefaultExtension(ext string) FetcherOption {
	return func(f *Fetcher) { f.defaultExt = ext }
}

// WithRetryDelays overrides the backoff delays between attempts. An empty
// slice disables retries.
func WithRetryDelays(delays []time.Duration) FetcherOption {
	return func(f *Fetcher) { f.retryDelays = delays }
}

// WithHostLimiter rate-limits downloads per host.
func WithHostLimiter(l *HostLimiter) FetcherOption {
	return func(f *Fetcher) { f.limiter = l }
}

// NewFetcher creates a new document Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		defaultExt:  ".pdf",
		retryDelays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch downloads the URL to a temporary file. Ownership of the file
// transfers to the caller, which must delete it after use regardless of
// outcome.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*doctext.FetchedFile, error) {
	if f.limiter != nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
				return nil, doctext.Errorf(doctext.ETIMEOUT, "rate limit wait canceled for %s: %v", rawURL, err)
			}
		}
	}

	var file *doctext.FetchedFile
	err := withRetry(ctx, f.retryDelays, func() error {
		var err error
		file, err = f.fetchOnce(ctx, rawURL)
		return err
	})
	return file, err
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*doctext.FetchedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, permanentErr(doctext.Errorf(doctext.EINVALID, "invalid document URL %q: %v", rawURL, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := doctext.Errorf(doctext.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
		// 4xx means the document is gone or the request is wrong; backing
		// off won't change that. 5xx may be transient.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, permanentErr(statusErr)
		}
		return nil, statusErr
	}

	name := f.deriveFilename(resp, rawURL)

	tmp, err := os.CreateTemp(f.tempDir, "doctext-*"+path.Ext(name))
	if err != nil {
		return nil, doctext.Errorf(doctext.EINTERNAL, "cannot create scratch file: %v", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, classifyTransportError(rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, doctext.Errorf(doctext.EINTERNAL, "cannot close scratch file: %v", err)
	}

	return &doctext.FetchedFile{Path: tmp.Name(), Name: name}, nil
}

// deriveFilename derives a filename for the download: the filename
// parameter of the content-disposition header if present, otherwise the
// last URL path segment (query already excluded by parsing), otherwise a
// fixed default. The result is forced to carry a recognized extension.
func (f *Fetcher) deriveFilename(resp *http.Response, rawURL string) string {
	var name string

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if fn := params["filename"]; fn != "" {
				// Header values are attacker-controlled; keep only the
				// base name.
				name = path.Base(strings.ReplaceAll(fn, "\\", "/"))
			}
		}
	}

	if name == "" {
		if u, err := url.Parse(rawURL); err == nil {
			name = path.Base(u.Path)
		}
	}
	if name == "" || name == "." || name == "/" {
		name = DefaultDocumentName
	}

	return ensureExtension(name, f.defaultExt)
}

// ensureExtension appends ext unless the name already ends with an
// extension that resolves to a known canonical format.
func ensureExtension(name, ext string) string {
	if doctext.ResolveFormat("", name) != doctext.FormatUnsupported {
		return name
	}
	return name + ext
}

func classifyTransportError(rawURL string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return doctext.Errorf(doctext.ETIMEOUT, "timeout downloading %s", rawURL)
	}
	return doctext.Errorf(doctext.EUNAVAILABLE, "cannot download %s: %v", rawURL, err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
