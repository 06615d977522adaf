package clock

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMondayOf(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2024-03-04", "2024-03-04"}, // Monday
		{"2024-03-06", "2024-03-04"},
		{"2024-03-10", "2024-03-04"}, // Sunday belongs to the preceding Monday
		{"2024-03-11", "2024-03-11"},
		{"2024-01-02", "2024-01-01"},
		{"2023-01-01", "2022-12-26"}, // crosses a year boundary
	}
	for _, c := range cases {
		got := MustParseDate(c.input).MondayOf()
		assert.Equal(t, c.want, got.String(), "MondayOf(%s)", c.input)
	}
}

func TestSundayOf(t *testing.T) {
	assert.Equal(t, "2024-03-10", MustParseDate("2024-03-07").SundayOf().String())
}

func TestDaysUntil(t *testing.T) {
	a := MustParseDate("2024-03-04")
	assert.Equal(t, 7, a.DaysUntil(MustParseDate("2024-03-11")))
	assert.Equal(t, -7, MustParseDate("2024-03-11").DaysUntil(a))
	// 2024 is a leap year
	assert.Equal(t, 29, MustParseDate("2024-02-01").DaysUntil(MustParseDate("2024-03-01")))
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 3, InclusiveDays(MustParseDate("2024-03-04"), MustParseDate("2024-03-06")))
	assert.Equal(t, 1, InclusiveDays(MustParseDate("2024-03-04"), MustParseDate("2024-03-04")))
}

func TestWithin(t *testing.T) {
	start := MustParseDate("2024-03-04")
	end := MustParseDate("2024-03-06")
	assert.True(t, start.Within(start, end))
	assert.True(t, end.Within(start, end))
	assert.False(t, MustParseDate("2024-03-07").Within(start, end))
	assert.False(t, MustParseDate("2024-03-03").Within(start, end))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("04/03/2024")
	assert.Error(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, tod.Minutes())
	assert.Equal(t, "09:30", tod.String())

	tod, err = ParseTimeOfDay("17:45:10")
	require.NoError(t, err)
	assert.Equal(t, "17:45", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestMinutesBetween(t *testing.T) {
	a := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 15, MinutesBetween(a, a.Add(15*time.Minute+59*time.Second)))
	assert.Equal(t, 0, MinutesBetween(a, a.Add(59*time.Second)))
}

func TestMinutesLate(t *testing.T) {
	planned := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, MinutesLate(planned, planned))
	assert.Equal(t, 0, MinutesLate(planned, planned.Add(-5*time.Minute)))
	assert.Equal(t, 1, MinutesLate(planned, planned.Add(45*time.Second)))
	assert.Equal(t, 15, MinutesLate(planned, planned.Add(15*time.Minute)))
	assert.Equal(t, 16, MinutesLate(planned, planned.Add(15*time.Minute+time.Second)))
}

func TestAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	got := At(MustParseDate("2024-03-04"), MustParseTimeOfDay("09:00"), loc)
	assert.Equal(t, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), got.UTC())
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date  Date      `json:"date"`
		Start TimeOfDay `json:"start"`
	}
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-04","start":"09:00"}`), &p))
	assert.Equal(t, MustParseDate("2024-03-04"), p.Date)
	assert.Equal(t, MustParseTimeOfDay("09:00"), p.Start)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-04","start":"09:00"}`, string(out))
}

func TestManual(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	m := NewManual(start)
	m.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), m.Now())
	assert.Equal(t, MustParseDate("2024-03-04"), Today(m))
}
