// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// exportLimit caps a full-archive export. Well above any realistic
// corpus size.
const exportLimit = 100000

// ExportEntry is one paper in an archive export, including its full
// reference list (R5.2).
type ExportEntry struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Abstract       string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Source         string   `json:"source,omitempty" yaml:"source,omitempty"`
	PDFPath        string   `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
	ExtractedAt    string   `json:"extracted_at,omitempty" yaml:"extracted_at,omitempty"`
	References     []string `json:"references,omitempty" yaml:"references,omitempty"`
	ReferenceCount int      `json:"reference_count" yaml:"reference_count"`
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	results, err := s.Query(ctx, QueryOptions{MaxResults: exportLimit})
	if err != nil {
		return nil, err
	}

	// Collect all reference rows in one pass rather than one query per
	// paper.
	refsByPaper := make(map[string][]string)
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, title FROM refs ORDER BY paper_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var paperID, title string
		if err := rows.Scan(&paperID, &title); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		refsByPaper[paperID] = append(refsByPaper[paperID], title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, ExportEntry{
			ID:             r.ID,
			Title:          r.Title,
			Abstract:       r.Abstract,
			Source:         r.Source,
			PDFPath:        r.PDFPath,
			ExtractedAt:    r.ExtractedAt,
			References:     refsByPaper[r.ID],
			ReferenceCount: r.ReferenceCount,
		})
	}
	return entries, nil
}

// ExportYAML writes the full archive to corpusDir/index/export.yaml
// (R5.1).
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(s.corpusDir, indexDir, "export.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// ExportJSON writes the full archive to corpusDir/index/export.json
// (R5.1).
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(s.corpusDir, indexDir, "export.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
