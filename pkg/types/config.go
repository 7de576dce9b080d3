package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litreview/0.1"). Per prd001-ingestion R5.4.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the ingestion stage.
// Per prd001-ingestion R2.1-R2.4, R5.1-R5.4.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Engine selects the extraction engine: grobid or local.
	Engine ExtractionEngine `json:"engine" yaml:"engine"`

	// GrobidURL is the base URL of the GROBID service (default
	// "http://localhost:8070").
	GrobidURL string `json:"grobid_url" yaml:"grobid_url"`

	// RequestInterval is the minimum spacing between extraction requests
	// sent to the GROBID service (default 1s).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`

	// MaxRetries is the number of retry attempts when the service reports
	// it is busy (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// InputDir is the directory scanned for PDF files (default "corpus/pdfs").
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// CorpusDir is the base directory for corpus records (contains papers/,
	// index/). Default "corpus".
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`
}

// AnalysisConfig holds settings for theme extraction.
// Per prd003-themes R5.1-R5.3: the topic and keyword counts are
// configurable with compatible defaults.
type AnalysisConfig struct {
	// Themes is the number of latent themes to extract (default 5).
	Themes int `json:"themes" yaml:"themes"`

	// Keywords is the number of keywords reported per theme (default 9).
	Keywords int `json:"keywords" yaml:"keywords"`

	// MaxFeatures caps the vocabulary size (default 1000).
	MaxFeatures int `json:"max_features" yaml:"max_features"`

	// MaxDocFreq drops terms present in more than this fraction of
	// documents (default 0.95).
	MaxDocFreq float64 `json:"max_doc_freq" yaml:"max_doc_freq"`

	// MinDocCount drops terms present in fewer than this many documents
	// (default 2).
	MinDocCount int `json:"min_doc_count" yaml:"min_doc_count"`

	// MaxIterations caps the factorization iteration count (default 400).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Seed fixes the factorization initialization for reproducible runs
	// (default 42).
	Seed int64 `json:"seed" yaml:"seed"`
}

// ReportConfig holds settings for report synthesis.
// Per prd005-report R3.1-R3.3.
type ReportConfig struct {
	// OutputDir is the directory for the generated artifacts (default
	// "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Template is an optional path to a narrative template file. Empty
	// selects the built-in template.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// ArchiveConfig holds settings for the corpus archive.
// Per prd006-archive R1.2, R2.3.
type ArchiveConfig struct {
	// CorpusDir is the base directory for corpus records (contains papers/,
	// index/). Default "corpus".
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Ingest   IngestConfig   `json:"ingest" yaml:"ingest"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
}
