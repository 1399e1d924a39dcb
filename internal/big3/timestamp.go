package big3

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	epochMin        = 1e9
	epochMax        = 1e15
	epochMillisFrom = 1e12

	isoMillisLayout = "2006-01-02T15:04:05.000Z07:00"
)

// order matters: the first layout that parses wins
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-1-2 15:04:05Z07:00",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006-1",
	"2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	time.RubyDate,
}

// Date(2024,0,31) or Date(2024,0,31,18,30,0[,ms]) as emitted by the gviz endpoint, month is 0-based
var gvizDateRegex = regexp.MustCompile(`^Date\((\d+),(\d+),(\d+)(?:,(\d+),(\d+),(\d+)(?:,(\d+))?)?\)$`)

// ParseTimestamp turns a raw timestamp into a point in time. Epoch seconds and
// milliseconds are recognized by magnitude, everything else goes through the
// known date layouts, first as-is and then with slashes turned into dashes.
// Zone-less inputs are read as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if ms, ok := epochMillis(n); ok {
			return time.UnixMilli(ms).UTC(), true
		}
	}

	if t, ok := parseDateString(s); ok {
		return t, true
	}

	return parseDateString(strings.ReplaceAll(s, "/", "-"))
}

// epochMillis reports whether n looks like a unix epoch and converts it to milliseconds.
// Below 1e12 it is seconds, from 1e12 up to 1e15 milliseconds. The magnitude
// has to lie in [1e9, 1e15), so a negative value is always seconds.
func epochMillis(n float64) (int64, bool) {
	abs := math.Abs(n)
	if math.IsNaN(n) || abs < epochMin || abs >= epochMax {
		return 0, false
	}
	ms := n
	if n < epochMillisFrom {
		ms = n * 1000
	}
	return int64(math.Trunc(ms)), true
}

func parseDateString(s string) (time.Time, bool) {
	if t, ok := parseGvizDate(s); ok {
		return t, true
	}

	// Mon Jan 01 2024 00:00:00 GMT+0100 (Central European Standard Time)
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseGvizDate(s string) (time.Time, bool) {
	m := gvizDateRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	parts := make([]int, 7)
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}

	return time.Date(
		parts[0], time.Month(parts[1]+1), parts[2],
		parts[3], parts[4], parts[5], parts[6]*int(time.Millisecond),
		time.UTC,
	), true
}
