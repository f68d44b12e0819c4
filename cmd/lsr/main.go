// Package main provides the lsr CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// A local .env may carry OPENALEX_API_KEY / LSR_EMAIL; absence is fine.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lsr",
	Short: "Living systematic review search manager",
	Long: `lsr accumulates bibliographic records across repeated searches of
PubMed, OpenAlex, and arXiv for a living systematic review.

Each search round is merged into a per-project CSV dataset with
title-based deduplication and full provenance (source database, search
round, year window, run date). All commands output JSON by default for
scripting; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// projectsRoot returns the configured projects root directory.
func projectsRoot() string {
	return config.GetProjectsRoot()
}
