package board

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name                   string
		start, current, target float64
		want                   float64
	}{
		{name: "halfway", start: 0, current: 50, target: 100, want: 50},
		{name: "at start", start: 10, current: 10, target: 20, want: 0},
		{name: "clamped high", start: 0, current: 150, target: 100, want: 100},
		{name: "clamped low", start: 50, current: 10, target: 100, want: 0},
		{name: "inverted range", start: 200, current: 150, target: 175, want: 0},
		{name: "empty range", start: 5, current: 100, target: 5, want: 0},
		{name: "nan current", start: 0, current: math.NaN(), target: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Progress(tt.start, tt.current, tt.target), 1e-9)
		})
	}
}

func TestProgressMonotonic(t *testing.T) {
	prev := -1.0
	for c := -50.0; c <= 250; c += 7.5 {
		p := Progress(0, c, 200)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestIsCompleteAndHasMetrics(t *testing.T) {
	assert.True(t, IsComplete(Progress(0, 100, 100)))
	assert.False(t, IsComplete(Progress(0, 99, 100)))
	assert.True(t, HasMetrics(1))
	assert.False(t, HasMetrics(0))
	assert.False(t, HasMetrics(-3))
}

func TestFormatProgressDisplay(t *testing.T) {
	tests := []struct {
		name            string
		current, target float64
		unit            string
		want            ProgressDisplay
	}{
		{
			name:    "currency prefix",
			current: 2500,
			target:  10000,
			unit:    "$",
			want:    ProgressDisplay{Current: "$2,500", Separator: " / ", Target: "$10,000"},
		},
		{
			name:    "percent",
			current: 25,
			target:  100,
			unit:    "%",
			want:    ProgressDisplay{Current: "25%", Separator: " → ", Target: "100%"},
		},
		{
			name:    "suffix unit",
			current: 182,
			target:  175,
			unit:    "lbs",
			want:    ProgressDisplay{Current: "182", Separator: " → ", Target: "175 lbs"},
		},
		{
			name:    "no unit",
			current: 3,
			target:  12,
			unit:    "",
			want:    ProgressDisplay{Current: "3", Separator: " → ", Target: "12"},
		},
		{
			name:    "euro",
			current: 1200.5,
			target:  5000,
			unit:    "€",
			want:    ProgressDisplay{Current: "€1,200.5", Separator: " / ", Target: "€5,000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatProgressDisplay(tt.current, tt.target, tt.unit))
		})
	}
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "$2,500", FormatMetric(2500, "$"))
	assert.Equal(t, "40%", FormatMetric(40, "%"))
	assert.Equal(t, "1,234", FormatMetric(1234, "pages"))
	assert.Equal(t, "$2,500 / $10,000", FormatProgressDisplay(2500, 10000, "$").String())
}
