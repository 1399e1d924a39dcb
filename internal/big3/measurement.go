package big3

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrUnknownField      = errors.New("unknown field")
	ErrLoaderClosed      = errors.New("loader closed")
)

// Cell is one raw cell handed over by a table source.
// A nil *Cell means the source row was too short or the cell was empty.
type Cell struct {
	// Raw is nil, float64, string or bool
	Raw       any
	Formatted string
}

func NumberCell(v float64) *Cell {
	return &Cell{Raw: v}
}

func StringCell(s string) *Cell {
	return &Cell{Raw: s}
}

// MeasurementRow is one decoded log entry. Never mutated after decoding.
type MeasurementRow struct {
	// Timestamp is ISO-8601 when the source cell held an epoch, otherwise the
	// source text as-is; empty when the cell was missing.
	Timestamp  string `json:"timestamp" yaml:"timestamp"`
	BenchPress Value  `json:"benchPress" yaml:"benchPress"`
	Squat      Value  `json:"squat" yaml:"squat"`
	Deadlift   Value  `json:"deadlift" yaml:"deadlift"`
	BodyWeight Value  `json:"bodyWeight" yaml:"bodyWeight"`
}

func (r MeasurementRow) Time() (time.Time, bool) {
	return ParseTimestamp(r.Timestamp)
}

type Field string

const (
	FieldBenchPress Field = "bp"
	FieldSquat      Field = "sq"
	FieldDeadlift   Field = "dl"
	FieldTotal      Field = "total"
	FieldBodyWeight Field = "bw"
)

func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bp", "bench", "benchpress", "bench_press":
		return FieldBenchPress, nil
	case "sq", "squat":
		return FieldSquat, nil
	case "dl", "deadlift":
		return FieldDeadlift, nil
	case "total", "big3":
		return FieldTotal, nil
	case "bw", "bodyweight", "body_weight":
		return FieldBodyWeight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}
