// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/archive"
	"github.com/pdiddy/litreview/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the corpus archive (index, query, export, runs)",
	Long: `Archive manages a local SQLite index built from the corpus records. Use
subcommands to index records, search them, export the archive, or list
past analysis runs.`,
}

// --- store subcommand ---

var archiveStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Index corpus records into the archive database",
	Long: `Store reads the YAML paper records from the corpus directory, ingests
them into a SQLite database with FTS5 search over titles and abstracts,
and refreshes the export file. Unchanged records are skipped on
subsequent runs.`,
	RunE: runArchiveStore,
}

func runArchiveStore(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.IngestDir(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var archiveQueryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Search archived papers with full-text search and filters",
	Long: `Query searches archived papers using FTS5 full-text search over titles
and abstracts, structured filters (extraction source, cited work), or a
combination of both. Without any filter it lists the archive by title.`,
	RunE: runArchiveQuery,
}

func runArchiveQuery(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []archive.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-50s  %-8s  %-5s  %s\n",
		"ID", "Title", "Source", "Refs", "Extracted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		extracted := r.ExtractedAt
		if len(extracted) > 10 {
			extracted = extracted[:10]
		}
		fmt.Fprintf(os.Stdout, "%-14s  %-50s  %-8s  %-5d  %s\n",
			r.ID, title, r.Source, r.ReferenceCount, extracted)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to YAML or JSON",
	Long: `Export writes the full archive, including per-paper reference lists, to
an export file under the corpus index directory.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background())
	case "json":
		path, err = store.ExportJSON(context.Background())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

// --- runs subcommand ---

var archiveRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past analysis runs",
	Long: `Runs lists the stored analysis runs, newest first, with corpus size,
reference statistics, and the themes each run discovered.`,
	RunE: runArchiveRuns,
}

func runArchiveRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-19s  %-7s  %-5s  %-8s  %s\n",
		"ID", "Created", "Papers", "Refs", "Avg", "Themes")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, r := range runs {
		labels := make([]string, 0, len(r.Themes))
		for _, theme := range r.Themes {
			labels = append(labels, theme.Label)
		}
		themeCol := strings.Join(labels, ", ")
		if themeCol == "" {
			themeCol = "-"
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-19s  %-7d  %-5d  %-8.2f  %s\n",
			r.ID, r.CreatedAt, r.TotalPapers, r.TotalReferences, r.AvgReferences, themeCol)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*archive.Store, error) {
	cfg := types.ArchiveConfig{
		CorpusDir:  stringSetting(cmd, "corpus-dir", "archive.corpus_dir"),
		MaxResults: intSetting(cmd, "max-results", "archive.max_results"),
	}
	return archive.NewStore(cfg)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	source, _ := cmd.Flags().GetString("source")
	citedWork, _ := cmd.Flags().GetString("cites")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      queryText,
		Source:     source,
		CitedWork:  citedWork,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	archiveCmd.PersistentFlags().String("corpus-dir", "corpus", "base directory for corpus records (contains papers/, index/)")
	archiveCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Query flags.
	archiveQueryCmd.Flags().String("query", "", "full-text search query")
	archiveQueryCmd.Flags().String("source", "", "filter by extraction engine: grobid or local")
	archiveQueryCmd.Flags().String("cites", "", "filter by cited work title")
	archiveQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Runs flags.
	archiveRunsCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	archiveRunsCmd.Flags().Bool("json", false, "output runs as JSON")

	// Wire subcommands.
	archiveCmd.AddCommand(archiveStoreCmd)
	archiveCmd.AddCommand(archiveQueryCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	archiveCmd.AddCommand(archiveRunsCmd)

	rootCmd.AddCommand(archiveCmd)
}
