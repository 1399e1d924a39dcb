package main

import (
	"fmt"

	"github.com/2beens/big3stats/internal/big3"

	"github.com/spf13/cobra"
)

var (
	seriesField string
	seriesRatio bool
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show the chart series for one field",
	Long: `Prints the time-ordered series for one field (bp, sq, dl, total, bw).
Lifts are forward-filled from earlier entries; --ratio divides by that day's body weight.`,
	RunE: runSeries,
}

func init() {
	seriesCmd.Flags().StringVar(&seriesField, "field", "total", "field to chart [bp | sq | dl | total | bw]")
	seriesCmd.Flags().BoolVar(&seriesRatio, "ratio", false, "divide by that day's body weight")
	rootCmd.AddCommand(seriesCmd)
}

func runSeries(cmd *cobra.Command, args []string) error {
	field, err := big3.ParseField(seriesField)
	if err != nil {
		return fmt.Errorf("invalid --field: %w", err)
	}

	snapshot, padding, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	points := big3.BuildSeries(snapshot.Rows, field, seriesRatio)
	out := seriesOutput{
		Field:  field,
		Ratio:  seriesRatio,
		Points: points,
		Domain: big3.AxisDomain(big3.SeriesValues(points, field, seriesRatio), padding.For(field, seriesRatio)),
	}

	format, _ := parseFormat(outputFormat)
	return printSeries(cmd.OutOrStdout(), format, out)
}
