// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists extracted papers and analysis runs in a
// searchable SQLite index alongside the YAML corpus records.
// Implements: prd006-archive (R1-R5);
//
//	docs/ARCHITECTURE § Archive.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litreview/internal/corpus"
	"github.com/pdiddy/litreview/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "corpus.db"
)

// Store manages the corpus archive SQLite database.
type Store struct {
	db         *sql.DB
	corpusDir  string
	maxResults int
}

// NewStore opens or creates the archive database at
// corpusDir/index/corpus.db. It creates the schema if it does not exist
// (R1.1, R1.2).
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CorpusDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		corpusDir:  cfg.CorpusDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			source TEXT,
			pdf_path TEXT,
			extracted_at TEXT,
			reference_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS refs (
			paper_id TEXT NOT NULL REFERENCES papers(id),
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			PRIMARY KEY (paper_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_title ON refs(title)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			total_papers INTEGER NOT NULL,
			total_references INTEGER NOT NULL,
			avg_references REAL NOT NULL,
			common_references TEXT NOT NULL,
			themes TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			paper_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an archive indexing run (R2.4).
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// IngestDir reads the YAML paper records under corpusDir/papers/ and
// populates the database. Unchanged records are detected by file
// modification time and skipped, so repeated runs only touch new or
// re-extracted papers (R2.1-R2.3).
func (s *Store) IngestDir(ctx context.Context, w io.Writer) (IngestSummary, error) {
	recordsDir := corpus.RecordsDir(s.corpusDir)

	entries, err := os.ReadDir(recordsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading records directory %s: %w", recordsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		recordID := strings.TrimSuffix(entry.Name(), ".yaml")

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", recordID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Check whether the record changed since last indexing (R2.1).
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE paper_id = ?`, recordID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", recordID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		paper, err := corpus.ReadRecord(filepath.Join(recordsDir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", recordID, err)
			summary.Failed++
			continue
		}
		if paper.ID == "" {
			paper.ID = recordID
		}

		if err := s.indexPaper(ctx, recordID, &paper, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", recordID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d references)\n", recordID, len(paper.References))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d references)\n", recordID, len(paper.References))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	// Refresh export.yaml after successful ingestion (R5.3).
	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) indexPaper(ctx context.Context, recordID string, p *types.Paper, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Drop old reference rows when re-indexing (R2.2).
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM refs WHERE paper_id = ?`, p.ID); err != nil {
			return fmt.Errorf("deleting old references: %w", err)
		}
	}

	extractedAt := ""
	if !p.ExtractedAt.IsZero() {
		extractedAt = p.ExtractedAt.UTC().Format(time.RFC3339)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, abstract, source, pdf_path, extracted_at, reference_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, source=excluded.source,
			pdf_path=excluded.pdf_path, extracted_at=excluded.extracted_at,
			reference_count=excluded.reference_count`,
		p.ID, p.Title, p.Abstract, string(p.Source), p.PDFPath, extractedAt, len(p.References),
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (paper_id, position, title) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, ref := range p.References {
		if _, err := stmt.ExecContext(ctx, p.ID, i, ref); err != nil {
			return fmt.Errorf("inserting reference %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (paper_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		recordID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// RecordRun stores the outcome of one analysis run so past results stay
// comparable (R4.1). The common references and themes are stored as JSON.
func (s *Store) RecordRun(ctx context.Context, rep *types.AnalysisReport) error {
	commonJSON, err := json.Marshal(rep.References.CommonReferences)
	if err != nil {
		return fmt.Errorf("marshaling common references: %w", err)
	}
	themesJSON, err := json.Marshal(rep.Themes)
	if err != nil {
		return fmt.Errorf("marshaling themes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (created_at, total_papers, total_references, avg_references, common_references, themes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rep.Timestamp, rep.TotalPapers, rep.References.TotalReferences,
		rep.References.AvgPerPaper, string(commonJSON), string(themesJSON),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// RunInfo is one stored analysis run.
type RunInfo struct {
	ID               int64         `json:"id" yaml:"id"`
	CreatedAt        string        `json:"created_at" yaml:"created_at"`
	TotalPapers      int           `json:"total_papers" yaml:"total_papers"`
	TotalReferences  int           `json:"total_references" yaml:"total_references"`
	AvgReferences    float64       `json:"avg_references" yaml:"avg_references"`
	CommonReferences []string      `json:"common_references" yaml:"common_references"`
	Themes           []types.Theme `json:"themes" yaml:"themes"`
}

// Runs returns stored analysis runs, newest first. A non-positive limit
// uses the store default (R4.2).
func (s *Store) Runs(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, total_papers, total_references, avg_references, common_references, themes
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			r          RunInfo
			commonJSON string
			themesJSON string
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.TotalPapers, &r.TotalReferences,
			&r.AvgReferences, &commonJSON, &themesJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		json.Unmarshal([]byte(commonJSON), &r.CommonReferences)
		json.Unmarshal([]byte(themesJSON), &r.Themes)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
