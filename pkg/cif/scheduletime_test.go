package cif

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleTime(t *testing.T) {
	value := NewScheduleTime(23, 27, 30)

	require.True(t, value.Valid())
	require.Equal(t, 23, value.Hour())
	require.Equal(t, 27, value.Minute())
	require.Equal(t, 30, value.Second())
	require.Equal(t, "23:27:30", value.String())
	require.Equal(t, "00:00", NewScheduleTime(0, 0, 0).String())

	require.False(t, NoTime.Valid())
	require.Empty(t, NoTime.String())
}

func TestScheduleTimeOn(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	date := time.Date(2019, 10, 15, 17, 45, 0, 0, london)

	require.Equal(t, time.Date(2019, 10, 15, 0, 15, 30, 0, london), NewScheduleTime(0, 15, 30).On(date))
	require.True(t, NoTime.On(date).IsZero())
}

func TestScheduleTimeJSON(t *testing.T) {
	encoded, err := json.Marshal(struct {
		Arrival   ScheduleTime
		Departure ScheduleTime
	}{NewScheduleTime(0, 15, 0), NoTime})
	require.NoError(t, err)
	require.JSONEq(t, `{"Arrival": "00:15", "Departure": null}`, string(encoded))
}

func TestTIPLOCWithSuffix(t *testing.T) {
	require.Equal(t, "WLOE2", TIPLOC("WLOE").WithSuffix("2"))
	require.Equal(t, "WLOE", TIPLOC("WLOE").WithSuffix(""))
}

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		value    string
		expected ScheduleTime
	}{
		{"0125 ", NewScheduleTime(1, 25, 0)},
		{"0125H", NewScheduleTime(1, 25, 30)},
		{"0127", NewScheduleTime(1, 27, 0)},
		{"    ", NoTime},
		{"     ", NoTime},
	}

	for _, test := range tests {
		value, err := ParseScheduleTime(test.value)
		require.NoError(t, err, test.value)
		require.Equal(t, test.expected, value, test.value)
	}

	_, err := ParseScheduleTime("2460")
	require.ErrorIs(t, err, ErrSyntax)

	_, err = ParseScheduleTime("12")
	require.Error(t, err)
}
