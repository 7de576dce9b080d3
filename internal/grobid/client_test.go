// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grobid

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

func init() {
	// Keep backoff waits out of the tests.
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func testConfig(url string) types.IngestConfig {
	cfg := types.IngestConfig{
		GrobidURL:       url,
		RequestInterval: time.Millisecond,
	}
	cfg.UserAgent = "litreview-test/0.1"
	return cfg
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake body"), 0o644))
	return path
}

func TestClientExtract(t *testing.T) {
	var gotPath, gotField, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		file, header, err := r.FormFile("input")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		gotField = header.Filename
		gotBody = string(b)

		w.Header().Set("Content-Type", "application/xml")
		io.WriteString(w, sampleTEI)
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL))
	p, err := c.Extract(context.Background(), writePDF(t))
	require.NoError(t, err)

	assert.Equal(t, "/api/processFulltextDocument", gotPath)
	assert.Equal(t, "sample.pdf", gotField)
	assert.Equal(t, "%PDF-1.4 fake body", gotBody)

	assert.Equal(t, "Light-Driven Nanomotors for Drug Delivery", p.Title)
	assert.Len(t, p.References, 2)
	assert.Equal(t, types.EngineGROBID, p.Source)
}

func TestClientExtractRetriesBusyService(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		// The retried upload must still carry the PDF.
		file, _, err := r.FormFile("input")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file.Close()
		io.WriteString(w, sampleTEI)
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL))
	p, err := c.Extract(context.Background(), writePDF(t))
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "Light-Driven Nanomotors for Drug Delivery", p.Title)
}

func TestClientExtractServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "PDF could not be parsed", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL))
	_, err := c.Extract(context.Background(), writePDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "PDF could not be parsed")
}

func TestClientExtractMissingFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for a missing file")
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL))
	_, err := c.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
}

func TestClientAlive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/isalive" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "true")
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL))
	assert.True(t, c.Alive(context.Background()))
}

func TestClientAliveDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	c := NewClient(testConfig(ts.URL))
	assert.False(t, c.Alive(context.Background()), "non-200 health response")

	// A closed server means a transport error, which also counts as down.
	ts.Close()
	assert.False(t, c.Alive(context.Background()))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(types.IngestConfig{})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, "grobid", c.Name())
}
