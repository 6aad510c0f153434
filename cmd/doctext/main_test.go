package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMain returns a Main wired to throwaway storage.
func newTestMain(t *testing.T) *Main {
	t.Helper()
	dir := t.TempDir()
	m := NewMain()
	m.DBPath = filepath.Join(dir, "test.db")
	m.DataDir = filepath.Join(dir, "data")
	return m
}

func runCLI(t *testing.T, m *Main, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments shows help and errors", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		_, _, err := runCLI(t, m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help flag succeeds", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		_, _, err := runCLI(t, m, "--help")
		require.NoError(t, err)
	})

	t.Run("add registers a resource and stores its payload", func(t *testing.T) {
		t.Parallel()

		doc := filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4"), 0o644))

		m := newTestMain(t)
		stdout, _, err := runCLI(t, m, "add", doc, "--dataset", "ds1", "--no-text")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Added resource \"report.pdf\"")
	})

	t.Run("add without extraction strategy reports a skip", func(t *testing.T) {
		t.Parallel()

		doc := filepath.Join(t.TempDir(), "table.csv")
		require.NoError(t, os.WriteFile(doc, []byte("a,b\n1,2\n"), 0o644))

		m := newTestMain(t)
		stdout, _, err := runCLI(t, m, "add", doc, "--dataset", "ds1")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Skipped")
	})

	t.Run("resources lists what add created", func(t *testing.T) {
		t.Parallel()

		doc := filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4"), 0o644))

		m := newTestMain(t)
		_, _, err := runCLI(t, m, "add", doc, "--dataset", "ds1", "--no-text")
		require.NoError(t, err)

		stdout, _, err := runCLI(t, m, "resources", "--dataset", "ds1")
		require.NoError(t, err)
		assert.Contains(t, stdout, "report.pdf")
		assert.Contains(t, stdout, "ds1")
	})

	t.Run("resources on an empty database explains itself", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout, _, err := runCLI(t, m, "resources")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No resources found")
	})

	t.Run("delete removes a resource", func(t *testing.T) {
		t.Parallel()

		doc := filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4"), 0o644))

		m := newTestMain(t)
		stdout, _, err := runCLI(t, m, "add", doc, "--dataset", "ds1", "--no-text")
		require.NoError(t, err)

		id := extractID(t, stdout)
		_, _, err = runCLI(t, m, "delete", id)
		require.NoError(t, err)

		stdout, _, err = runCLI(t, m, "resources")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No resources found")
	})

	t.Run("process of an unknown resource fails", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		_, stderr, err := runCLI(t, m, "process", "ghost")
		require.Error(t, err)
		assert.Contains(t, stderr, "not found")
	})

	t.Run("ingest of an unrecognized manifest is a no-op", func(t *testing.T) {
		t.Parallel()

		manifest := filepath.Join(t.TempDir(), "notice.json")
		require.NoError(t, os.WriteFile(manifest, []byte(`{"links": {}}`), 0o644))

		m := newTestMain(t)
		stdout, _, err := runCLI(t, m, "ingest", manifest, "--dataset", "ds1")
		require.NoError(t, err)
		assert.Contains(t, stdout, "no documents")
	})
}

// extractID pulls the resource ID out of add's confirmation line:
// Added resource "name" (<id>)
func extractID(t *testing.T, stdout string) string {
	t.Helper()
	start := strings.LastIndex(stdout, "(")
	end := strings.LastIndex(stdout, ")")
	require.True(t, start >= 0 && end > start, "no ID in output: %q", stdout)
	return stdout[start+1 : end]
}
