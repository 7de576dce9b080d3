// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionEngine identifies the engine that turned a PDF into a Paper.
// Per prd001-ingestion R5.1.
type ExtractionEngine string

const (
	EngineGROBID ExtractionEngine = "grobid"
	EngineLocal  ExtractionEngine = "local"
)

// Paper holds the structured text extracted from one document.
// Per prd001-ingestion R3.1: title, abstract, body, and the reference
// titles in extraction order (duplicates preserved).
//
// A Paper is immutable once constructed: the analysis stages only read
// its fields, never write them.
type Paper struct {
	// ID is a slug derived from the source PDF file name (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// PDFPath is the local filesystem path to the source PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Title is the paper title. Empty when extraction found none.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Body is the full body text with markup stripped.
	Body string `json:"body" yaml:"body"`

	// References lists cited-work titles in extraction order.
	References []string `json:"references" yaml:"references"`

	// Source identifies which engine produced the record ("grobid", "local").
	Source ExtractionEngine `json:"source,omitempty" yaml:"source,omitempty"`

	// ExtractedAt is the time the record was produced.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}
