package big3

import (
	"strconv"
	"strings"
	"time"
)

// source column order
const (
	colDate = iota
	colBenchPress
	colSquat
	colDeadlift
	colBodyWeight
)

// DecodeTable decodes all source records. The first record is the header and is always skipped.
func DecodeTable(table [][]*Cell) []MeasurementRow {
	if len(table) <= 1 {
		return []MeasurementRow{}
	}

	rows := make([]MeasurementRow, 0, len(table)-1)
	for _, cells := range table[1:] {
		rows = append(rows, DecodeRow(cells))
	}
	return rows
}

// DecodeRow decodes one source record (date, bp, sq, dl, body weight).
// Cells that cannot be read end up absent, a record never fails as a whole.
func DecodeRow(cells []*Cell) MeasurementRow {
	return MeasurementRow{
		Timestamp:  decodeTimestamp(cellAt(cells, colDate)),
		BenchPress: decodeNumber(cellAt(cells, colBenchPress)),
		Squat:      decodeNumber(cellAt(cells, colSquat)),
		Deadlift:   decodeNumber(cellAt(cells, colDeadlift)),
		BodyWeight: decodeNumber(cellAt(cells, colBodyWeight)),
	}
}

func cellAt(cells []*Cell, i int) *Cell {
	if i >= len(cells) {
		return nil
	}
	return cells[i]
}

func decodeNumber(c *Cell) Value {
	if c == nil {
		return None()
	}
	n, ok := cellNumber(c.Raw)
	if !ok {
		return None()
	}
	return Some(n)
}

// decodeTimestamp keeps epoch cells as ISO-8601 strings and everything else
// as the text the source showed, so the date layouts can still deal with it later.
func decodeTimestamp(c *Cell) string {
	if c == nil {
		return ""
	}

	if n, ok := cellNumber(c.Raw); ok {
		if ms, ok := epochMillis(n); ok {
			return time.UnixMilli(ms).UTC().Format(isoMillisLayout)
		}
	}

	if c.Formatted != "" {
		return c.Formatted
	}
	return rawString(c.Raw)
}

func cellNumber(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case bool:
		if v {
			n = 1
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}

	if !isFinite(n) {
		return 0, false
	}
	return n, true
}

func rawString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		if n, ok := cellNumber(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return ""
	}
}
