package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/grobid"
	"github.com/pdiddy/litreview/internal/ingest"
	"github.com/pdiddy/litreview/pkg/types"
)

const defaultUserAgent = "litreview/0.1"

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf-files...]",
	Short: "Extract PDF files into corpus records",
	Long: `Ingest runs PDF files through an extraction engine and writes one YAML
record per paper under the corpus directory. Without arguments every PDF
in the input directory is processed; explicit file paths restrict the run
to those files. Records newer than their PDF are reused, so repeated runs
only extract new or changed files.

The grobid engine sends each PDF to a GROBID service and parses the TEI
response; the local engine extracts plain text without a service.`,
	RunE: runIngest,
}

func init() {
	addIngestFlags(ingestCmd)
	ingestCmd.Flags().String("corpus-dir", "corpus", "base directory for corpus records")

	rootCmd.AddCommand(ingestCmd)
}

// addIngestFlags registers the flags shared by ingest and run. The
// corpus-dir flag is registered separately because run inherits it from
// the analysis flag set.
func addIngestFlags(cmd *cobra.Command) {
	cmd.Flags().String("engine", "grobid", "extraction engine: grobid or local")
	cmd.Flags().String("grobid-url", grobid.DefaultBaseURL, "base URL of the GROBID service")
	cmd.Flags().String("input-dir", "corpus/pdfs", "directory scanned for PDF files")
	cmd.Flags().Duration("timeout", 60*time.Second, "HTTP request timeout")
	cmd.Flags().Duration("interval", time.Second, "minimum spacing between extraction requests")
	cmd.Flags().Int("max-retries", 3, "retry attempts when the service is busy")
}

// ingestConfig builds the ingestion settings from flags, the config
// file, and environment variables.
func ingestConfig(cmd *cobra.Command) types.IngestConfig {
	return types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationSetting(cmd, "timeout", "ingest.timeout"),
			UserAgent: defaultUserAgent,
		},
		Engine:          types.ExtractionEngine(stringSetting(cmd, "engine", "ingest.engine")),
		GrobidURL:       stringSetting(cmd, "grobid-url", "ingest.grobid_url"),
		RequestInterval: durationSetting(cmd, "interval", "ingest.request_interval"),
		MaxRetries:      intSetting(cmd, "max-retries", "ingest.max_retries"),
		InputDir:        stringSetting(cmd, "input-dir", "ingest.input_dir"),
		CorpusDir:       stringSetting(cmd, "corpus-dir", "ingest.corpus_dir"),
	}
}

// newEngine selects the extraction engine named in the configuration.
func newEngine(cfg types.IngestConfig) (ingest.Engine, error) {
	switch cfg.Engine {
	case types.EngineGROBID, "":
		return grobid.NewClient(cfg), nil
	case types.EngineLocal:
		return ingest.LocalEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction engine %q: use grobid or local", cfg.Engine)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfig(cmd)

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var result ingest.BatchResult
	if len(args) > 0 {
		result, err = ingest.IngestFiles(ctx, engine, args, cfg, os.Stdout)
	} else {
		result, err = ingest.IngestBatch(ctx, engine, cfg, os.Stdout)
	}
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed extraction", result.Failed)
	}
	return nil
}
