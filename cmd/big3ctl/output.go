package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/2beens/big3stats/internal/big3"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
	formatYAML  format = "yaml"
)

// replaced in tests
var now = time.Now

func parseFormat(s string) (format, error) {
	switch f := format(s); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q, use one of: table, json, yaml", s)
	}
}

type seriesOutput struct {
	Field  big3.Field         `json:"field" yaml:"field"`
	Ratio  bool               `json:"ratio" yaml:"ratio"`
	Points []big3.SeriesPoint `json:"points" yaml:"points"`
	Domain big3.Domain        `json:"domain" yaml:"domain"`
}

func printStructured(w io.Writer, f format, v any) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("not a structured format: %s", f)
	}
}

func printSummary(w io.Writer, f format, s big3.Summary, at time.Time) error {
	if f != formatTable {
		return printStructured(w, f, s)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LIFT\tBEST\tx BW")
	for _, line := range []struct {
		name  string
		best  big3.Value
		ratio func(*big3.Ratios) big3.Value
	}{
		{"Bench press", s.BenchPress, func(r *big3.Ratios) big3.Value { return r.BenchPress }},
		{"Squat", s.Squat, func(r *big3.Ratios) big3.Value { return r.Squat }},
		{"Deadlift", s.Deadlift, func(r *big3.Ratios) big3.Value { return r.Deadlift }},
		{"Total", s.Total, func(r *big3.Ratios) big3.Value { return r.Total }},
	} {
		ratio := big3.None()
		if s.Ratios != nil {
			ratio = line.ratio(s.Ratios)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", line.name, line.best, ratio)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nBody weight: %s\n", s.LatestBodyWeight)
	if s.LatestRow != nil {
		if t, ok := s.LatestRow.Time(); ok {
			fmt.Fprintf(w, "Latest entry: %s (%s)\n", t.Format("2006-01-02"), humanize.RelTime(t, at, "ago", "from now"))
		}
	}
	return nil
}

func printSeries(w io.Writer, f format, out seriesOutput) error {
	if f != formatTable {
		return printStructured(w, f, out)
	}

	header := string(out.Field)
	if out.Ratio {
		header += " / BW"
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "TIMESTAMP\t%s\n", header)
	for _, p := range out.Points {
		v := p.Value(out.Field)
		if out.Ratio {
			v = p.Ratio
		}
		fmt.Fprintf(tw, "%s\t%s\n", p.Timestamp, v)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s points, axis [%s, %s]\n",
		humanize.Comma(int64(len(out.Points))),
		humanize.Ftoa(out.Domain.Min),
		humanize.Ftoa(out.Domain.Max),
	)
	return nil
}

func printRows(w io.Writer, f format, rows []big3.MeasurementRow) error {
	if f != formatTable {
		if rows == nil {
			rows = []big3.MeasurementRow{}
		}
		return printStructured(w, f, rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tBP\tSQ\tDL\tBW")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Timestamp, r.BenchPress, r.Squat, r.Deadlift, r.BodyWeight)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s rows\n", humanize.Comma(int64(len(rows))))
	return nil
}
