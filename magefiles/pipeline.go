//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"
)

// runCLI builds the binary if it is missing and runs it with the given
// arguments.
func runCLI(args ...string) error {
	bin := filepath.Join(binDir, binName)
	if _, err := os.Stat(bin); err != nil {
		if err := Build(); err != nil {
			return err
		}
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Ingest extracts every PDF in corpus/pdfs into corpus records.
// See prd001-ingestion for full requirements.
func Ingest() error { return runCLI("ingest") }

// Analyze discovers themes and reference statistics over the corpus and
// writes the review artifacts. See prd003-themes through prd005-report.
func Analyze() error { return runCLI("analyze") }

// Index ingests corpus records into the SQLite archive.
// See prd006-archive for full requirements.
func Index() error { return runCLI("archive", "store") }

// Review runs the full pipeline end to end.
func Review() error { return runCLI("run") }
