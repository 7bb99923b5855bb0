package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Adaptive edit orchestration from the command line",
	Long: `tailor runs style-adapted paragraph edits against a completion
service and learns per-document preferences from your accept/reject
decisions.

Commands:
- edit: run the generate-critique-correct loop on one paragraph
- decide: report your decision on a suggested edit so the document learns
- feedback: record explicit feedback tags (too_formal, too_verbose, ...)
- patterns: summarize what this document's rejected edits have in common
- reset: clear a document's learned adjustments, keeping its history`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config YAML")
	rootCmd.AddCommand(editCmd, decideCmd, feedbackCmd, patternsCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
