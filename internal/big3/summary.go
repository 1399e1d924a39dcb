package big3

import (
	"slices"
)

// Summary holds the all-time bests. Total is the sum of the three bests,
// which need not come from the same day.
type Summary struct {
	BenchPress       Value           `json:"bp" yaml:"bp"`
	Squat            Value           `json:"sq" yaml:"sq"`
	Deadlift         Value           `json:"dl" yaml:"dl"`
	Total            Value           `json:"total" yaml:"total"`
	LatestBodyWeight Value           `json:"latestBodyWeight" yaml:"latestBodyWeight"`
	Ratios           *Ratios         `json:"ratios" yaml:"ratios"`
	LatestRow        *MeasurementRow `json:"latestRow" yaml:"latestRow"`
}

// Ratios are the bests divided by the latest body weight.
type Ratios struct {
	BenchPress Value `json:"bp" yaml:"bp"`
	Squat      Value `json:"sq" yaml:"sq"`
	Deadlift   Value `json:"dl" yaml:"dl"`
	Total      Value `json:"total" yaml:"total"`
}

func Summarize(rows []MeasurementRow) Summary {
	s := Summary{
		BenchPress: maxOf(rows, func(r MeasurementRow) Value { return r.BenchPress }),
		Squat:      maxOf(rows, func(r MeasurementRow) Value { return r.Squat }),
		Deadlift:   maxOf(rows, func(r MeasurementRow) Value { return r.Deadlift }),
	}
	s.Total = sumRounded(s.BenchPress, s.Squat, s.Deadlift)

	timed := timeRows(rows)
	s.LatestBodyWeight = latestBodyWeight(timed)
	s.LatestRow = latestRow(timed)

	if bw, ok := s.LatestBodyWeight.Get(); ok && bw > 0 {
		s.Ratios = &Ratios{
			BenchPress: ratioTo(s.BenchPress, s.LatestBodyWeight),
			Squat:      ratioTo(s.Squat, s.LatestBodyWeight),
			Deadlift:   ratioTo(s.Deadlift, s.LatestBodyWeight),
			Total:      ratioTo(s.Total, s.LatestBodyWeight),
		}
	}

	return s
}

func maxOf(rows []MeasurementRow, get func(MeasurementRow) Value) Value {
	best := None()
	for _, r := range rows {
		f, ok := get(r).Get()
		if !ok || !isFinite(f) {
			continue
		}
		if cur, ok := best.Get(); !ok || f > cur {
			best = Some(f)
		}
	}
	return best
}

// latestBodyWeight walks back in time from the newest row until it finds a
// usable body weight. Rows without a parseable timestamp are not considered.
func latestBodyWeight(timed []timedRow) Value {
	parsed := make([]timedRow, 0, len(timed))
	for _, tr := range timed {
		if tr.parsed {
			parsed = append(parsed, tr)
		}
	}
	slices.SortStableFunc(parsed, func(a, b timedRow) int {
		return b.at.Compare(a.at)
	})

	for _, tr := range parsed {
		if bw, ok := tr.row.BodyWeight.Get(); ok && isFinite(bw) && bw > 0 {
			return Some(bw)
		}
	}
	return None()
}

func latestRow(timed []timedRow) *MeasurementRow {
	var latest *timedRow
	for i := range timed {
		tr := &timed[i]
		if !tr.parsed {
			continue
		}
		if latest == nil || tr.at.After(latest.at) {
			latest = tr
		}
	}
	if latest == nil {
		return nil
	}
	row := latest.row
	return &row
}
