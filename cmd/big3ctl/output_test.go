package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/big3stats/internal/big3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testRows() []big3.MeasurementRow {
	return []big3.MeasurementRow{
		{Timestamp: "2024-01-01", BenchPress: big3.Some(90), Squat: big3.Some(130), Deadlift: big3.Some(170), BodyWeight: big3.Some(82)},
		{Timestamp: "2024-01-15", BenchPress: big3.Some(100), Squat: big3.Some(140), Deadlift: big3.Some(180), BodyWeight: big3.Some(80)},
		{Timestamp: "2024-01-08", BenchPress: big3.Some(95)},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "yaml"} {
		f, err := parseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, format(s), f)
	}

	_, err := parseFormat("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestPrintSummary_Table(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 1, 25, 12, 0, 0, 0, time.UTC)
	require.NoError(t, printSummary(&buf, formatTable, big3.Summarize(testRows()), at))

	out := buf.String()
	assert.Regexp(t, `LIFT\s+BEST\s+x BW`, out)
	assert.Regexp(t, `Bench press\s+100\s+1\.25`, out)
	assert.Regexp(t, `Squat\s+140\s+1\.75`, out)
	assert.Regexp(t, `Deadlift\s+180\s+2\.25`, out)
	assert.Regexp(t, `Total\s+420\s+5\.25`, out)
	assert.Contains(t, out, "Body weight: 80")
	assert.Contains(t, out, "Latest entry: 2024-01-15 (1 week ago)")
}

func TestPrintSummary_Table_NoBodyWeight(t *testing.T) {
	var buf bytes.Buffer
	rows := []big3.MeasurementRow{{Timestamp: "not a date", BenchPress: big3.Some(60)}}
	require.NoError(t, printSummary(&buf, formatTable, big3.Summarize(rows), time.Now()))

	out := buf.String()
	assert.Regexp(t, `Bench press\s+60\s+-`, out)
	assert.Regexp(t, `Squat\s+-\s+-`, out)
	assert.Contains(t, out, "Body weight: -")
	assert.NotContains(t, out, "Latest entry")
}

func TestPrintSummary_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, formatJSON, big3.Summarize(testRows()), time.Now()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 420.0, got["total"])
	assert.Equal(t, 80.0, got["latestBodyWeight"])
	ratios, ok := got["ratios"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.25, ratios["bp"])
}

func TestPrintSeries_Table(t *testing.T) {
	points := big3.BuildSeries(testRows(), big3.FieldTotal, false)
	out := seriesOutput{
		Field:  big3.FieldTotal,
		Points: points,
		Domain: big3.AxisDomain(big3.SeriesValues(points, big3.FieldTotal, false), 20),
	}

	var buf bytes.Buffer
	require.NoError(t, printSeries(&buf, formatTable, out))

	s := buf.String()
	assert.Regexp(t, `TIMESTAMP\s+total`, s)
	assert.Regexp(t, `2024-01-01\s+390`, s)
	// forward-filled sq and dl
	assert.Regexp(t, `2024-01-08\s+395`, s)
	assert.Regexp(t, `2024-01-15\s+420`, s)
	assert.Contains(t, s, "3 points, axis [370, 440]")
}

func TestPrintSeries_Table_Ratio(t *testing.T) {
	points := big3.BuildSeries(testRows(), big3.FieldBenchPress, true)
	out := seriesOutput{
		Field:  big3.FieldBenchPress,
		Ratio:  true,
		Points: points,
		Domain: big3.AxisDomain(big3.SeriesValues(points, big3.FieldBenchPress, true), 0.1),
	}

	var buf bytes.Buffer
	require.NoError(t, printSeries(&buf, formatTable, out))

	s := buf.String()
	assert.Regexp(t, `TIMESTAMP\s+bp / BW`, s)
	assert.Regexp(t, `2024-01-01\s+1\.1`, s)
	// no body weight that day
	assert.Regexp(t, `2024-01-08\s+-`, s)
	assert.Regexp(t, `2024-01-15\s+1\.25`, s)
}

func TestPrintRows_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRows(&buf, formatYAML, testRows()[2:]))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-08", got[0]["timestamp"])
	assert.Equal(t, 95, got[0]["benchPress"])
	assert.Nil(t, got[0]["squat"])
	assert.Contains(t, buf.String(), "squat: null")
}

func TestPrintRows_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRows(&buf, formatTable, testRows()))

	s := buf.String()
	assert.Regexp(t, `TIMESTAMP\s+BP\s+SQ\s+DL\s+BW`, s)
	assert.Regexp(t, `2024-01-08\s+95\s+-\s+-\s+-`, s)
	assert.Contains(t, s, "3 rows")
}

func TestPrintRows_JSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRows(&buf, formatJSON, nil))
	assert.JSONEq(t, `[]`, buf.String())
}
