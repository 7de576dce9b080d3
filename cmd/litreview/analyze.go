package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/internal/corpus"
	"github.com/pdiddy/litreview/internal/references"
	"github.com/pdiddy/litreview/internal/report"
	"github.com/pdiddy/litreview/internal/themes"
	"github.com/pdiddy/litreview/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the corpus and write the review artifacts",
	Long: `Analyze loads every paper record from the corpus, extracts latent themes
across the aggregated texts, computes reference statistics, and writes
the review artifacts (literature_review.json and comprehensive_report.md)
to the output directory.

Theme extraction degrades gracefully: when the corpus is too small or too
uniform to factorize, the run continues without themes and says so.`,
	RunE: runAnalyze,
}

func init() {
	addAnalysisFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// addAnalysisFlags registers the flags shared by analyze and run.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().String("corpus-dir", "corpus", "base directory for corpus records")
	cmd.Flags().String("output-dir", "output", "directory for the review artifacts")
	cmd.Flags().String("template", "", "path to a custom narrative template (default: built-in)")
	cmd.Flags().Int("themes", themes.DefaultThemes, "number of latent themes to extract")
	cmd.Flags().Int("keywords", themes.DefaultKeywords, "keywords reported per theme")
	cmd.Flags().Int("max-features", themes.DefaultMaxFeatures, "vocabulary size cap for term weighting")
}

// analysisConfig builds the theme extraction settings. The less common
// factorization knobs are config-file only.
func analysisConfig(cmd *cobra.Command) types.AnalysisConfig {
	return types.AnalysisConfig{
		Themes:        intSetting(cmd, "themes", "analysis.themes"),
		Keywords:      intSetting(cmd, "keywords", "analysis.keywords"),
		MaxFeatures:   intSetting(cmd, "max-features", "analysis.max_features"),
		MaxDocFreq:    viper.GetFloat64("analysis.max_doc_freq"),
		MinDocCount:   viper.GetInt("analysis.min_doc_count"),
		MaxIterations: viper.GetInt("analysis.max_iterations"),
		Seed:          viper.GetInt64("analysis.seed"),
	}
}

// reportConfig builds the artifact writing settings.
func reportConfig(cmd *cobra.Command) types.ReportConfig {
	return types.ReportConfig{
		OutputDir: stringSetting(cmd, "output-dir", "report.output_dir"),
		Template:  stringSetting(cmd, "template", "report.template"),
	}
}

// analyzeCorpus runs the analysis stages over the records in corpusDir
// and returns the assembled report.
func analyzeCorpus(cfg types.AnalysisConfig, corpusDir string, w io.Writer) (*types.AnalysisReport, error) {
	c, err := corpus.Load(corpusDir, w)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Analyzing %d papers\n", c.Len())

	extractor := themes.NewExtractor(cfg)
	themeList := extractor.Extract(c.Texts(), w)

	stats := references.Analyze(c.Papers())

	return report.Synthesize(c.Papers(), themeList, stats), nil
}

// writeArtifacts renders the report files and prints a closing summary.
func writeArtifacts(cfg types.ReportConfig, rep *types.AnalysisReport, w io.Writer) error {
	if err := report.WriteFiles(cfg.OutputDir, rep, cfg.Template, w); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nReview complete: %d papers, %d themes, %d shared references\n",
		rep.TotalPapers, len(rep.Themes), len(rep.References.CommonReferences))
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	corpusDir := stringSetting(cmd, "corpus-dir", "ingest.corpus_dir")

	rep, err := analyzeCorpus(analysisConfig(cmd), corpusDir, os.Stdout)
	if err != nil {
		return err
	}
	return writeArtifacts(reportConfig(cmd), rep, os.Stdout)
}
