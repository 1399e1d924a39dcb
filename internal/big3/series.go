package big3

import (
	"encoding/json"
	"math"
	"slices"
	"time"
)

// SeriesPoint is one chart point: lifts forward-filled, body weight as reported.
type SeriesPoint struct {
	Timestamp  string `json:"timestamp" yaml:"timestamp"`
	BenchPress Value  `json:"benchPress" yaml:"benchPress"`
	Squat      Value  `json:"squat" yaml:"squat"`
	Deadlift   Value  `json:"deadlift" yaml:"deadlift"`
	Total      Value  `json:"total" yaml:"total"`
	BodyWeight Value  `json:"bodyWeight" yaml:"bodyWeight"`
	Ratio      Value  `json:"ratio" yaml:"ratio"`
}

// Value returns the point's value for the given field.
func (p SeriesPoint) Value(field Field) Value {
	switch field {
	case FieldBenchPress:
		return p.BenchPress
	case FieldSquat:
		return p.Squat
	case FieldDeadlift:
		return p.Deadlift
	case FieldTotal:
		return p.Total
	case FieldBodyWeight:
		return p.BodyWeight
	default:
		return None()
	}
}

// fillState holds the last known value of each lift.
type fillState struct {
	benchPress Value
	squat      Value
	deadlift   Value
}

func (s fillState) next(row MeasurementRow) fillState {
	return fillState{
		benchPress: row.BenchPress.OrElse(s.benchPress),
		squat:      row.Squat.OrElse(s.squat),
		deadlift:   row.Deadlift.OrElse(s.deadlift),
	}
}

func (s fillState) total() Value {
	return sumRounded(s.benchPress, s.squat, s.deadlift)
}

// BuildSeries orders rows by time and forward-fills the three lifts. Rows with a
// timestamp that does not parse go last, keeping their relative order.
// With ratio set, each point also gets field / body weight of that same row.
func BuildSeries(rows []MeasurementRow, field Field, ratio bool) []SeriesPoint {
	sorted := sortByTime(rows)

	points := make([]SeriesPoint, 0, len(sorted))
	var state fillState
	for _, tr := range sorted {
		state = state.next(tr.row)
		p := SeriesPoint{
			Timestamp:  tr.row.Timestamp,
			BenchPress: state.benchPress,
			Squat:      state.squat,
			Deadlift:   state.deadlift,
			Total:      state.total(),
			BodyWeight: tr.row.BodyWeight,
		}
		if ratio {
			p.Ratio = ratioTo(p.Value(field), tr.row.BodyWeight)
		}
		points = append(points, p)
	}

	return points
}

// SeriesValues extracts the values a chart of the field would display.
func SeriesValues(points []SeriesPoint, field Field, ratio bool) []Value {
	values := make([]Value, 0, len(points))
	for _, p := range points {
		if ratio {
			values = append(values, p.Ratio)
		} else {
			values = append(values, p.Value(field))
		}
	}
	return values
}

// Domain is a chart axis range.
type Domain struct {
	Min float64
	Max float64
}

var DefaultDomain = Domain{Min: 0, Max: 100}

func (d Domain) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{d.Min, d.Max})
}

func (d *Domain) UnmarshalJSON(data []byte) error {
	var mm [2]float64
	if err := json.Unmarshal(data, &mm); err != nil {
		return err
	}
	d.Min, d.Max = mm[0], mm[1]
	return nil
}

func (d Domain) MarshalYAML() (interface{}, error) {
	return []float64{d.Min, d.Max}, nil
}

// AxisDomain pads the range of the present values, DefaultDomain if there are none.
func AxisDomain(values []Value, pad float64) Domain {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		f, ok := v.Get()
		if !ok || !isFinite(f) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if math.IsInf(lo, 1) {
		return DefaultDomain
	}
	return Domain{Min: lo - pad, Max: hi + pad}
}

// Padding is the axis padding per displayed field.
type Padding struct {
	Lift       float64 `toml:"lift"`
	Total      float64 `toml:"total"`
	BodyWeight float64 `toml:"body_weight"`
	Ratio      float64 `toml:"ratio"`
}

var DefaultPadding = Padding{
	Lift:       5,
	Total:      20,
	BodyWeight: 2,
	Ratio:      0.1,
}

func (p Padding) For(field Field, ratio bool) float64 {
	switch {
	case ratio:
		return p.Ratio
	case field == FieldTotal:
		return p.Total
	case field == FieldBodyWeight:
		return p.BodyWeight
	default:
		return p.Lift
	}
}

type timedRow struct {
	row    MeasurementRow
	at     time.Time
	parsed bool
}

func timeRows(rows []MeasurementRow) []timedRow {
	timed := make([]timedRow, 0, len(rows))
	for _, r := range rows {
		at, ok := r.Time()
		timed = append(timed, timedRow{row: r, at: at, parsed: ok})
	}
	return timed
}

func sortByTime(rows []MeasurementRow) []timedRow {
	timed := timeRows(rows)
	slices.SortStableFunc(timed, func(a, b timedRow) int {
		switch {
		case a.parsed && b.parsed:
			return a.at.Compare(b.at)
		case a.parsed:
			return -1
		case b.parsed:
			return 1
		default:
			return 0
		}
	})
	return timed
}

func sumRounded(values ...Value) Value {
	var sum float64
	for _, v := range values {
		f, ok := v.Get()
		if !ok {
			return None()
		}
		sum += f
	}
	return Some(round1(sum))
}

func ratioTo(v, bodyWeight Value) Value {
	f, ok := v.Get()
	if !ok {
		return None()
	}
	bw, ok := bodyWeight.Get()
	if !ok || !isFinite(bw) || bw <= 0 {
		return None()
	}
	return Some(round2(f / bw))
}
