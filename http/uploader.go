package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/fwojciec/doctext"
)

// DefaultUploadTimeout is the default timeout for artifact uploads, sized
// for large result files.
const DefaultUploadTimeout = 100 * time.Second

// Ensure Uploader implements doctext.Uploader at compile time.
var _ doctext.Uploader = (*Uploader)(nil)

// Uploader publishes local files to the hosting platform's
// resource-creation endpoint as multipart form posts. The endpoint and the
// API token are required configuration; there are no defaults.
type Uploader struct {
	client   *http.Client
	endpoint string
	token    string
	timeout  time.Duration
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithUploadTimeout sets the request timeout. Defaults to
// DefaultUploadTimeout (100s).
func WithUploadTimeout(d time.Duration) UploaderOption {
	return func(u *Uploader) { u.timeout = d }
}

// NewUploader creates an Uploader for the given resource-creation endpoint.
func NewUploader(endpoint, token string, opts ...UploaderOption) (*Uploader, error) {
	if endpoint == "" {
		return nil, doctext.Errorf(doctext.EINVALID, "upload endpoint required")
	}
	if token == "" {
		return nil, doctext.Errorf(doctext.EINVALID, "upload API token required")
	}

	u := &Uploader{
		endpoint: endpoint,
		token:    token,
		timeout:  DefaultUploadTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.client = &http.Client{Timeout: u.timeout}
	return u, nil
}

// uploadResponse is the platform's action-API envelope.
type uploadResponse struct {
	Success bool `json:"success"`
	Result  struct {
		ID string `json:"id"`
	} `json:"result"`
}

// Upload sends the file as a resource-creation request and returns the new
// resource ID. Non-2xx statuses and non-success response bodies surface as
// EPERSIST; timeouts as ETIMEOUT.
func (u *Uploader) Upload(ctx context.Context, localPath, datasetID, name, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = mime.TypeByExtension(path.Ext(name))
		if mimeType == "" {
			mimeType = "text/plain"
		}
	}

	format := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if format == "" {
		format = "bin"
	}

	body, contentType, err := buildMultipart(localPath, map[string]string{
		"package_id": datasetID,
		"name":       name,
		"format":     format,
		"mimetype":   mimeType,
	}, name, mimeType)
	if err != nil {
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot build upload request: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return "", doctext.Errorf(doctext.EINVALID, "invalid upload endpoint %q: %v", u.endpoint, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", u.token)

	resp, err := u.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", doctext.Errorf(doctext.ETIMEOUT, "upload to %s timed out", u.endpoint)
		}
		return "", doctext.Errorf(doctext.EPERSIST, "upload failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", doctext.Errorf(doctext.EPERSIST, "cannot read upload response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", doctext.Errorf(doctext.EPERSIST, "upload rejected: HTTP %d", resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", doctext.Errorf(doctext.EPERSIST, "malformed upload response: %v", err)
	}
	if !parsed.Success || parsed.Result.ID == "" {
		return "", doctext.Errorf(doctext.EPERSIST, "upload of %q not accepted by the platform", name)
	}

	return parsed.Result.ID, nil
}

// buildMultipart assembles the multipart body: the form fields plus the
// file under the "upload" part.
func buildMultipart(localPath string, fields map[string]string, filename, mimeType string) (io.Reader, string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("upload", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
