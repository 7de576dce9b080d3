// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grobid talks to a GROBID service, turning PDF files into
// structured paper records via its TEI fulltext endpoint.
// Implements: prd001-ingestion (R2, R5).
package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// DefaultBaseURL is the conventional address of a locally run GROBID
// container.
const DefaultBaseURL = "http://localhost:8070"

const (
	aliveEndpoint   = "/api/isalive"
	processEndpoint = "/api/processFulltextDocument"

	defaultTimeout  = 60 * time.Second
	defaultInterval = time.Second
)

// Client is a GROBID HTTP client. Requests are spaced by a rate limiter
// so a batch of PDFs does not flood the service (R5.2), and busy
// responses are retried with backoff (R5.3).
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient builds a client from cfg, falling back to the default URL,
// timeout, and one-second request spacing for zero values.
func NewClient(cfg types.IngestConfig) *Client {
	base := cfg.GrobidURL
	if base == "" {
		base = DefaultBaseURL
	}
	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = defaultInterval
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(base, "/"),
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		maxRetries: cfg.MaxRetries,
	}
}

// Name identifies the engine in logs and stored records.
func (c *Client) Name() string { return string(types.EngineGROBID) }

// Alive reports whether the service answers its health endpoint with
// 200. Any transport error counts as not alive.
func (c *Client) Alive(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+aliveEndpoint, nil)
	if err != nil {
		return false
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Extract uploads the PDF at pdfPath and parses the TEI result into a
// Paper. The returned record carries the extraction fields and the
// engine name; identity and timestamps are the caller's concern.
func (c *Client) Extract(ctx context.Context, pdfPath string) (*types.Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	raw, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pdfPath, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("input", filepath.Base(pdfPath))
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := part.Write(raw); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processEndpoint, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/xml")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", filepath.Base(pdfPath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("grobid returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	paper, err := parseTEI(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing result for %s: %w", filepath.Base(pdfPath), err)
	}
	paper.Source = types.EngineGROBID
	return paper, nil
}
