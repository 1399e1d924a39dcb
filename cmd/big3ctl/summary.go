package main

import (
	"github.com/2beens/big3stats/internal/big3"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the all-time bests, total and body weight ratios",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	snapshot, _, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	format, _ := parseFormat(outputFormat)
	return printSummary(cmd.OutOrStdout(), format, big3.Summarize(snapshot.Rows), now())
}
