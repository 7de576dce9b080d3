// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs PDF files through an extraction engine and writes
// the resulting paper records into the corpus.
// Implements: prd001-ingestion (R1-R5);
//
//	docs/ARCHITECTURE § Ingestion.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/litreview/internal/corpus"
	"github.com/pdiddy/litreview/pkg/types"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// Engine turns one PDF file into a structured paper record. Extract
// returns the extraction fields and the engine name in Source; identity,
// path, and timestamp are filled in here.
type Engine interface {
	Name() string
	Extract(ctx context.Context, pdfPath string) (*types.Paper, error)
}

// healthChecker is implemented by engines backed by an external service.
type healthChecker interface {
	Alive(ctx context.Context) bool
}

// BatchResult holds the outcome of a batch ingestion run.
type BatchResult struct {
	Extracted int
	Skipped   int
	Failed    int
	Papers    []*types.Paper
}

// Total returns the total number of PDF files processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Skipped + r.Failed
}

// HasFailures reports whether any files failed to extract.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// IngestPaper extracts a single PDF and writes its corpus record. When a
// record newer than the PDF already exists it is reused instead of
// re-extracting (R4.1). The skipped return value reports that reuse.
func IngestPaper(ctx context.Context, engine Engine, pdfPath string, cfg types.IngestConfig, w io.Writer) (paper *types.Paper, skipped bool, err error) {
	id := stableID(filepath.Base(pdfPath))
	recordPath := corpus.RecordPath(cfg.CorpusDir, id)

	if recordFresh(pdfPath, recordPath) {
		p, readErr := corpus.ReadRecord(recordPath)
		if readErr == nil {
			fmt.Fprintf(w, "skipped: %s (record up to date)\n", filepath.Base(pdfPath))
			return &p, true, nil
		}
		// Unreadable record: re-extract below.
	}

	fmt.Fprintf(w, "extracting: %s (%s)\n", filepath.Base(pdfPath), engine.Name())

	p, err := engine.Extract(ctx, pdfPath)
	if err != nil {
		return nil, false, err
	}
	p.ID = id
	p.PDFPath = pdfPath
	p.ExtractedAt = timeNow().UTC()

	if err := corpus.WriteRecord(recordPath, *p); err != nil {
		return nil, false, fmt.Errorf("writing record for %s: %w", id, err)
	}
	return p, false, nil
}

// IngestBatch processes every PDF in cfg.InputDir in name order, printing
// per-file status and returning a summary. Individual extraction failures
// are logged and skipped (R1.2); the returned error is reserved for setup
// conditions that make the whole run pointless, such as the extraction
// service being unreachable before any file is processed (R1.3).
func IngestBatch(ctx context.Context, engine Engine, cfg types.IngestConfig, w io.Writer) (BatchResult, error) {
	files, err := filepath.Glob(filepath.Join(cfg.InputDir, "*.pdf"))
	if err != nil {
		return BatchResult{}, fmt.Errorf("scanning %s: %w", cfg.InputDir, err)
	}
	fmt.Fprintf(w, "Found %d PDF files in %s\n", len(files), cfg.InputDir)

	return IngestFiles(ctx, engine, files, cfg, w)
}

// IngestFiles processes the given PDF files with the same per-file
// semantics as IngestBatch.
func IngestFiles(ctx context.Context, engine Engine, files []string, cfg types.IngestConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult

	if hc, ok := engine.(healthChecker); ok && !hc.Alive(ctx) {
		return result, fmt.Errorf("extraction service %q is not responding", engine.Name())
	}

	if err := os.MkdirAll(corpus.RecordsDir(cfg.CorpusDir), 0o755); err != nil {
		return result, fmt.Errorf("creating records directory: %w", err)
	}

	for _, pdfPath := range files {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("ingestion interrupted: %w", err)
		}

		paper, wasSkipped, err := IngestPaper(ctx, engine, pdfPath, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(pdfPath), err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Extracted++
		}
		result.Papers = append(result.Papers, paper)
	}

	fmt.Fprintf(w, "\nIngest summary: %d extracted, %d skipped, %d failed (total: %d)\n",
		result.Extracted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// recordFresh reports whether the record at recordPath exists and is at
// least as new as the PDF it was extracted from.
func recordFresh(pdfPath, recordPath string) bool {
	pdfInfo, err := os.Stat(pdfPath)
	if err != nil {
		return false
	}
	recInfo, err := os.Stat(recordPath)
	if err != nil {
		return false
	}
	return !recInfo.ModTime().Before(pdfInfo.ModTime())
}

// stableID returns a short stable identifier derived from the file name.
func stableID(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
