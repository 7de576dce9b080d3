// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QueryOptions filters an archive search (R3.1-R3.3). A non-empty Query
// runs a full-text match over titles and abstracts; Source and CitedWork
// narrow the result set further.
type QueryOptions struct {
	Query      string
	Source     string
	CitedWork  string
	MaxResults int
}

// IsEmpty reports whether no filter was provided.
func (o QueryOptions) IsEmpty() bool {
	return o.Query == "" && o.Source == "" && o.CitedWork == ""
}

// QueryResult is a single archived paper matched by Query.
type QueryResult struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Abstract       string `json:"abstract" yaml:"abstract"`
	Source         string `json:"source" yaml:"source"`
	PDFPath        string `json:"pdf_path" yaml:"pdf_path"`
	ExtractedAt    string `json:"extracted_at" yaml:"extracted_at"`
	ReferenceCount int    `json:"reference_count" yaml:"reference_count"`
}

// Query searches the archived papers. Full-text matches are ordered by
// relevance, plain listings by title (R3.4).
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		query strings.Builder
		args  []any
	)

	if opts.Query != "" {
		query.WriteString(
			`SELECT p.id, p.title, p.abstract, p.source, p.pdf_path, p.extracted_at, p.reference_count
			 FROM papers_fts
			 JOIN papers p ON p.rowid = papers_fts.rowid
			 WHERE papers_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		query.WriteString(
			`SELECT p.id, p.title, p.abstract, p.source, p.pdf_path, p.extracted_at, p.reference_count
			 FROM papers p
			 WHERE 1=1`)
	}

	if opts.Source != "" {
		query.WriteString(` AND p.source = ?`)
		args = append(args, opts.Source)
	}

	if opts.CitedWork != "" {
		query.WriteString(` AND EXISTS (SELECT 1 FROM refs r WHERE r.paper_id = p.id AND r.title = ?)`)
		args = append(args, opts.CitedWork)
	}

	if opts.Query != "" {
		query.WriteString(` ORDER BY papers_fts.rank`)
	} else {
		query.WriteString(` ORDER BY p.title`)
	}

	query.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			r           QueryResult
			abstract    sql.NullString
			pdfPath     sql.NullString
			extractedAt sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Title, &abstract, &r.Source,
			&pdfPath, &extractedAt, &r.ReferenceCount); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Abstract = abstract.String
		r.PDFPath = pdfPath.String
		r.ExtractedAt = extractedAt.String
		results = append(results, r)
	}

	return results, rows.Err()
}

// References returns the cited titles stored for one paper, in their
// original order.
func (s *Store) References(ctx context.Context, paperID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM refs WHERE paper_id = ? ORDER BY position`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		refs = append(refs, title)
	}

	return refs, rows.Err()
}
