package big3_test

import (
	"encoding/json"
	"testing"

	"github.com/2beens/big3stats/internal/big3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_TotalOfMaxima(t *testing.T) {
	rows := []big3.MeasurementRow{
		{Timestamp: "2024-01-01", BenchPress: big3.Some(100), Squat: big3.Some(0), Deadlift: big3.Some(0)},
		{Timestamp: "2024-02-01", BenchPress: big3.Some(0), Squat: big3.Some(150), Deadlift: big3.Some(200)},
	}

	s := big3.Summarize(rows)
	assert.Equal(t, big3.Some(100), s.BenchPress)
	assert.Equal(t, big3.Some(150), s.Squat)
	assert.Equal(t, big3.Some(200), s.Deadlift)
	assert.Equal(t, big3.Some(450), s.Total)
	assert.False(t, s.LatestBodyWeight.Present())
	assert.Nil(t, s.Ratios)

	require.NotNil(t, s.LatestRow)
	assert.Equal(t, rows[1], *s.LatestRow)
}

func TestSummarize_TotalNeedsAllThree(t *testing.T) {
	rows := []big3.MeasurementRow{
		{Timestamp: "2024-01-01", BenchPress: big3.Some(100), Squat: big3.Some(150)},
	}

	s := big3.Summarize(rows)
	assert.Equal(t, big3.Some(100), s.BenchPress)
	assert.Equal(t, big3.Some(150), s.Squat)
	assert.False(t, s.Deadlift.Present())
	assert.False(t, s.Total.Present())
}

func TestSummarize_LatestBodyWeightScansBack(t *testing.T) {
	rows := []big3.MeasurementRow{
		{Timestamp: "2024-01-01", BenchPress: big3.Some(100), Squat: big3.Some(140), Deadlift: big3.Some(180), BodyWeight: big3.Some(90)},
		{Timestamp: "2024-02-01", BodyWeight: big3.Some(80)},
		{Timestamp: "2024-03-01", BodyWeight: big3.Some(0)},
		{Timestamp: "2024-04-01", BodyWeight: big3.Some(-3)},
		{Timestamp: "2024-05-01", BenchPress: big3.Some(105)},
		// no usable timestamp, never the latest
		{Timestamp: "", BodyWeight: big3.Some(70)},
		{Timestamp: "garbage", BodyWeight: big3.Some(60)},
	}

	s := big3.Summarize(rows)
	assert.Equal(t, big3.Some(80), s.LatestBodyWeight)
	assert.Equal(t, big3.Some(105), s.BenchPress)
	assert.Equal(t, big3.Some(425), s.Total)

	require.NotNil(t, s.Ratios)
	assert.Equal(t, big3.Some(1.31), s.Ratios.BenchPress)
	assert.Equal(t, big3.Some(1.75), s.Ratios.Squat)
	assert.Equal(t, big3.Some(2.25), s.Ratios.Deadlift)
	assert.Equal(t, big3.Some(5.31), s.Ratios.Total)

	require.NotNil(t, s.LatestRow)
	assert.Equal(t, "2024-05-01", s.LatestRow.Timestamp)
}

func TestSummarize_EmptyTimestampsExcludedFromLatest(t *testing.T) {
	rows := []big3.MeasurementRow{
		{Timestamp: "", BenchPress: big3.Some(100), BodyWeight: big3.Some(80)},
		{Timestamp: "nope", BenchPress: big3.Some(110), BodyWeight: big3.Some(81)},
	}

	s := big3.Summarize(rows)
	// maxima still see every row
	assert.Equal(t, big3.Some(110), s.BenchPress)
	assert.Nil(t, s.LatestRow)
	assert.False(t, s.LatestBodyWeight.Present())
	assert.Nil(t, s.Ratios)
}

func TestSummarize_LatestRowTieKeepsFirst(t *testing.T) {
	rows := []big3.MeasurementRow{
		{Timestamp: "2024-01-01", BenchPress: big3.Some(1)},
		{Timestamp: "2024/01/01", BenchPress: big3.Some(2)},
	}

	s := big3.Summarize(rows)
	require.NotNil(t, s.LatestRow)
	assert.Equal(t, big3.Some(1), s.LatestRow.BenchPress)
}

func TestSummarize_Empty(t *testing.T) {
	s := big3.Summarize(nil)
	assert.False(t, s.BenchPress.Present())
	assert.False(t, s.Squat.Present())
	assert.False(t, s.Deadlift.Present())
	assert.False(t, s.Total.Present())
	assert.False(t, s.LatestBodyWeight.Present())
	assert.Nil(t, s.Ratios)
	assert.Nil(t, s.LatestRow)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"bp":null,"sq":null,"dl":null,"total":null,"latestBodyWeight":null,"ratios":null,"latestRow":null}`,
		string(b),
	)
}
