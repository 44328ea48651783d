package board

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Progress returns how far current has moved from start towards target, in
// percent clamped to [0, 100]. An empty or inverted range has no trackable
// progress and yields 0.
func Progress(start, current, target float64) float64 {
	if target <= start {
		return 0
	}
	p := (current - start) / (target - start) * 100
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

// IsComplete reports whether a progress value has reached the target.
func IsComplete(progress float64) bool {
	return progress >= 100
}

// HasMetrics reports whether a vision tracks a numeric target at all.
func HasMetrics(target float64) bool {
	return target > 0
}

var prefixUnits = map[string]bool{
	"$": true,
	"€": true,
	"£": true,
	"¥": true,
}

// IsPrefixUnit reports whether unit is a currency symbol written before the number.
func IsPrefixUnit(unit string) bool {
	return prefixUnits[unit]
}

// ProgressDisplay is the "current → target" line under a progress bar.
type ProgressDisplay struct {
	Current   string `json:"current"`
	Separator string `json:"separator"`
	Target    string `json:"target"`
}

func (d ProgressDisplay) String() string {
	return d.Current + d.Separator + d.Target
}

// FormatMetric renders a single value with its unit.
func FormatMetric(value float64, unit string) string {
	value = finite(value)
	switch {
	case IsPrefixUnit(unit):
		return unit + localeNumber(value)
	case unit == "%":
		return plainNumber(value) + "%"
	default:
		return localeNumber(value)
	}
}

// FormatProgressDisplay renders current and target for a unit:
// "$2,500 / $10,000", "25% → 100%" or "182 → 175 lbs".
func FormatProgressDisplay(current, target float64, unit string) ProgressDisplay {
	current, target = finite(current), finite(target)
	switch {
	case IsPrefixUnit(unit):
		return ProgressDisplay{
			Current:   unit + localeNumber(current),
			Separator: " / ",
			Target:    unit + localeNumber(target),
		}
	case unit == "%":
		return ProgressDisplay{
			Current:   plainNumber(current) + "%",
			Separator: " → ",
			Target:    plainNumber(target) + "%",
		}
	default:
		return ProgressDisplay{
			Current:   localeNumber(current),
			Separator: " → ",
			Target:    strings.TrimSpace(localeNumber(target) + " " + unit),
		}
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// localeNumber groups thousands and keeps at most three fraction digits.
func localeNumber(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

func plainNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
