package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/archive"
	"github.com/pdiddy/litreview/internal/ingest"
	"github.com/pdiddy/litreview/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest, analyze, archive",
	Long: `Run executes the whole review pipeline in one pass: every PDF in the
input directory is extracted into a corpus record, the corpus is analyzed
for themes and shared references, the review artifacts are written, and
the results are indexed in the archive with a run history entry.

Papers that fail extraction are reported and left out of the analysis;
the command still exits nonzero so scripted runs notice.`,
	RunE: runPipeline,
}

func init() {
	addIngestFlags(runCmd)
	addAnalysisFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := types.PipelineConfig{
		Ingest:   ingestConfig(cmd),
		Analysis: analysisConfig(cmd),
		Report:   reportConfig(cmd),
	}
	// The archive indexes the same corpus the ingest stage writes.
	cfg.Archive = types.ArchiveConfig{CorpusDir: cfg.Ingest.CorpusDir}

	engine, err := newEngine(cfg.Ingest)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	result, err := ingest.IngestBatch(ctx, engine, cfg.Ingest, os.Stdout)
	if err != nil {
		return err
	}

	rep, err := analyzeCorpus(cfg.Analysis, cfg.Ingest.CorpusDir, os.Stdout)
	if err != nil {
		return err
	}
	if err := writeArtifacts(cfg.Report, rep, os.Stdout); err != nil {
		return err
	}

	// Index the corpus and record this run in the archive.
	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.IngestDir(ctx, os.Stdout); err != nil {
		return err
	}
	if err := store.RecordRun(ctx, rep); err != nil {
		return err
	}

	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed extraction", result.Failed)
	}
	return nil
}
