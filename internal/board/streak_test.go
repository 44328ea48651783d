package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreak(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)

	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{name: "empty", times: nil, want: 0},
		{name: "single entry", times: []time.Time{day}, want: 1},
		{name: "same day counted once", times: []time.Time{day, day.Add(time.Hour), day.Add(10 * time.Hour)}, want: 1},
		{name: "gaps still count", times: []time.Time{day, day.AddDate(0, 0, -3), day.AddDate(0, 0, -10)}, want: 3},
		{name: "zero times skipped", times: []time.Time{{}, day}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.times, loc))
		})
	}
}

func TestStreakUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)

	// 02:00 UTC and 22:00 UTC on the same UTC date fall on different EST days.
	early := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	late := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, Streak([]time.Time{early, late}, loc))
	assert.Equal(t, 1, Streak([]time.Time{early, late}, time.UTC))
}

func TestRunStreak(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, loc)
	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{name: "empty", want: 0},
		{name: "today only", times: []time.Time{daysAgo(0)}, want: 1},
		{name: "anchored at yesterday", times: []time.Time{daysAgo(1), daysAgo(2)}, want: 2},
		{name: "stale run", times: []time.Time{daysAgo(2), daysAgo(3)}, want: 0},
		{name: "stops at first gap", times: []time.Time{daysAgo(0), daysAgo(1), daysAgo(3), daysAgo(4)}, want: 2},
		{name: "duplicates", times: []time.Time{daysAgo(0), daysAgo(0), daysAgo(1)}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RunStreak(tt.times, now))
		})
	}
}
