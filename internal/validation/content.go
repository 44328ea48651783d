package validation

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxThoughtLength = 5000
	MaxTaskLength    = 280
	MaxTitleLength   = 80
	MaxVisionLength  = 1000
	MaxUnitLength    = 16
	MaxCheerLength   = 140
)

var ErrEmptyThought = invalid("thought needs text or media")

// ValidateThought requires text unless media is attached.
func ValidateThought(text string, hasMedia bool) error {
	text = strings.TrimSpace(text)
	if text == "" && !hasMedia {
		return ErrEmptyThought
	}
	return maxLen("thought", text, MaxThoughtLength)
}

func ValidateTask(task string) error {
	return required("mission task", task, MaxTaskLength)
}

func ValidateGoalTitle(title string) error {
	return required("goal title", title, MaxTitleLength)
}

func ValidateCheer(note string) error {
	return required("cheer note", note, MaxCheerLength)
}

// ValidateVision checks the statement and the metric block. A zero target
// means the vision is tracked without numbers.
func ValidateVision(content string, start, current, target float64, unit string) error {
	if err := required("vision", content, MaxVisionLength); err != nil {
		return err
	}
	for _, v := range []float64{start, current, target} {
		if err := ValidateMetric(v); err != nil {
			return err
		}
	}
	if target < 0 {
		return invalid("metric target cannot be negative")
	}
	return maxLen("metric unit", unit, MaxUnitLength)
}

// ValidateMetric rejects NaN and infinities.
func ValidateMetric(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("metric values must be finite numbers")
	}
	return nil
}

var (
	hexColor    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	namedColors = map[string]bool{
		"red": true, "orange": true, "amber": true, "yellow": true, "green": true,
		"emerald": true, "teal": true, "cyan": true, "blue": true, "indigo": true,
		"violet": true, "purple": true, "pink": true, "rose": true, "slate": true,
	}
)

// ValidateColor accepts "#rgb", "#rrggbb" or a palette name. Empty means no color.
func ValidateColor(color string) error {
	if color == "" || hexColor.MatchString(color) || namedColors[strings.ToLower(color)] {
		return nil
	}
	return invalid("invalid color %q", color)
}

func required(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return maxLen(field, value, max)
}

func maxLen(field, value string, max int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > max {
		return invalid("%s is too long (max %d characters)", field, max)
	}
	return nil
}
