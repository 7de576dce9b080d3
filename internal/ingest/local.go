// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/litreview/pkg/types"
)

// LocalEngine extracts text directly from PDF files, for corpora
// processed without a GROBID service. Section detection is heuristic
// and reference lists are not recovered, so records from this engine
// carry empty reference lists (R2.3).
type LocalEngine struct{}

// Name identifies the engine in logs and stored records.
func (LocalEngine) Name() string { return string(types.EngineLocal) }

// Extract reads every page of the PDF and splits the text into title,
// abstract, and body.
func (LocalEngine) Extract(_ context.Context, pdfPath string) (*types.Paper, error) {
	text, err := readPlainText(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pdfPath, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no extractable text in %s", pdfPath)
	}
	p := parsePlainText(text)
	p.Source = types.EngineLocal
	return p, nil
}

// readPlainText concatenates the plain text of every page. Pages that
// cannot be decoded are skipped.
func readPlainText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// parsePlainText splits page text into paper fields. The title is the
// first substantial line, the abstract the block between an "abstract"
// marker and the next section heading, and everything after that is
// body.
func parsePlainText(text string) *types.Paper {
	lines := strings.Split(text, "\n")

	p := &types.Paper{}
	bodyFrom := 0
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		// Skip short lines, headers, etc.
		if len(line) > 20 && !isHeaderLine(line) {
			p.Title = line
			bodyFrom = i + 1
			break
		}
	}

	if start, end, lead := findAbstract(lines); start >= 0 {
		var parts []string
		if lead != "" {
			parts = append(parts, lead)
		}
		for _, raw := range lines[start:end] {
			if s := strings.TrimSpace(raw); s != "" {
				parts = append(parts, s)
			}
		}
		p.Abstract = strings.Join(parts, " ")
		bodyFrom = end
	}

	var body []string
	for _, raw := range lines[bodyFrom:] {
		if s := strings.TrimSpace(raw); s != "" {
			body = append(body, s)
		}
	}
	p.Body = strings.Join(body, "\n")
	return p
}

// findAbstract locates the abstract block: start is the first line after
// the "abstract" marker, end the next section heading or the end of the
// text. lead carries any text that follows the marker on its own line.
func findAbstract(lines []string) (start, end int, lead string) {
	start = -1
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		norm := strings.ToLower(trimmed)
		if start < 0 {
			if strings.HasPrefix(norm, "abstract") {
				start = i + 1
				lead = strings.TrimSpace(strings.TrimLeft(trimmed[len("abstract"):], ":. \t-"))
			}
			continue
		}
		if isSectionHeading(norm) {
			return start, i, lead
		}
	}
	if start < 0 {
		return -1, -1, ""
	}
	return start, len(lines), lead
}

var sectionHeadings = []string{"introduction", "keywords", "key words", "index terms", "1."}

func isSectionHeading(norm string) bool {
	for _, h := range sectionHeadings {
		if strings.HasPrefix(norm, h) {
			return true
		}
	}
	return false
}

// isHeaderLine checks if a line is likely a journal header or footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	return false
}
