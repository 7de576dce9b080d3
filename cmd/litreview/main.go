// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litreview CLI.
// Implements: prd001-ingestion, prd002-corpus, prd003-themes,
//             prd004-references, prd005-report, prd006-archive (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the litreview CLI.
var rootCmd = &cobra.Command{
	Use:   "litreview",
	Short: "Automated literature review over a local PDF corpus",
	Long: `litreview turns a directory of scientific paper PDFs into a structured
literature review. The pipeline extracts each PDF into a corpus record,
discovers latent themes across the corpus, analyzes shared references,
and writes JSON and Markdown review artifacts.

Each stage is a subcommand: ingest, analyze, and archive. The run command
executes the whole pipeline in one pass.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litreview.yaml or ~/.config/litreview/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litreview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litreview"))
		}
	}

	viper.SetEnvPrefix("LITREVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// The setting helpers resolve a value flag-first: an explicitly set flag
// wins, then the config file or a LITREVIEW_* environment variable, then
// the flag default.

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func durationSetting(cmd *cobra.Command, flag, key string) time.Duration {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	v, _ := cmd.Flags().GetDuration(flag)
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
