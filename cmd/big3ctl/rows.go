package main

import (
	"github.com/spf13/cobra"
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "List the decoded log rows as they appear in the source",
	RunE:  runRows,
}

func init() {
	rootCmd.AddCommand(rowsCmd)
}

func runRows(cmd *cobra.Command, args []string) error {
	snapshot, _, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	format, _ := parseFormat(outputFormat)
	return printRows(cmd.OutOrStdout(), format, snapshot.Rows)
}
