package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/doctext"
	dochttp "github.com/fwojciec/doctext/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewUploader(t *testing.T) {
	t.Parallel()

	t.Run("endpoint required", func(t *testing.T) {
		t.Parallel()

		_, err := dochttp.NewUploader("", "token")
		assert.Equal(t, doctext.EINVALID, doctext.ErrorCode(err))
	})

	t.Run("token required", func(t *testing.T) {
		t.Parallel()

		_, err := dochttp.NewUploader("http://host/api", "")
		assert.Equal(t, doctext.EINVALID, doctext.ErrorCode(err))
	})
}

func TestUploader_Upload(t *testing.T) {
	t.Parallel()

	t.Run("posts multipart fields and the file part", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))

			assert.Equal(t, "secret-token", r.Header.Get("Authorization"))
			assert.Equal(t, "ds1", r.FormValue("package_id"))
			assert.Equal(t, "report.txt", r.FormValue("name"))
			assert.Equal(t, "txt", r.FormValue("format"))
			assert.Equal(t, "text/plain", r.FormValue("mimetype"))

			file, header, err := r.FormFile("upload")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "report.txt", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success": true, "result": {"id": "new-resource-id"}}`))
		}))
		defer srv.Close()

		u, err := dochttp.NewUploader(srv.URL, "secret-token")
		require.NoError(t, err)

		id, err := u.Upload(context.Background(), writeArtifact(t, "extracted text"), "ds1", "report.txt", "text/plain")

		require.NoError(t, err)
		assert.Equal(t, "new-resource-id", id)
	})

	t.Run("non-success response body is EPERSIST", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": false, "error": {"message": "validation failed"}}`))
		}))
		defer srv.Close()

		u, err := dochttp.NewUploader(srv.URL, "secret-token")
		require.NoError(t, err)

		_, err = u.Upload(context.Background(), writeArtifact(t, "text"), "ds1", "report.txt", "")

		assert.Equal(t, doctext.EPERSIST, doctext.ErrorCode(err))
	})

	t.Run("non-2xx status is EPERSIST", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		u, err := dochttp.NewUploader(srv.URL, "secret-token")
		require.NoError(t, err)

		_, err = u.Upload(context.Background(), writeArtifact(t, "text"), "ds1", "report.txt", "")

		assert.Equal(t, doctext.EPERSIST, doctext.ErrorCode(err))
	})

	t.Run("mime type defaults from the artifact name", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Contains(t, r.FormValue("mimetype"), "text/plain")
			_, _ = w.Write([]byte(`{"success": true, "result": {"id": "id1"}}`))
		}))
		defer srv.Close()

		u, err := dochttp.NewUploader(srv.URL, "secret-token")
		require.NoError(t, err)

		_, err = u.Upload(context.Background(), writeArtifact(t, "text"), "ds1", "report.txt", "")
		require.NoError(t, err)
	})
}
