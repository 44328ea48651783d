package board

import (
	"time"
)

// DayLayout is the calendar-day key used for activity grouping.
const DayLayout = "2006-01-02"

// DayKey returns the local calendar date of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// Streak counts the distinct local calendar days on which any entry was created.
// It is a "days active" total, not a consecutive run; see RunStreak for that.
func Streak(times []time.Time, loc *time.Location) int {
	return len(activeDays(times, loc))
}

// RunStreak counts consecutive active days ending today, or ending yesterday
// when nothing has been logged yet today. The first gap stops the walk.
func RunStreak(times []time.Time, now time.Time) int {
	loc := now.Location()
	days := activeDays(times, loc)
	if len(days) == 0 {
		return 0
	}

	y, m, d := now.Date()
	cursor := time.Date(y, m, d, 12, 0, 0, 0, loc)
	if _, ok := days[cursor.Format(DayLayout)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
		if _, ok := days[cursor.Format(DayLayout)]; !ok {
			return 0
		}
	}

	run := 0
	for {
		if _, ok := days[cursor.Format(DayLayout)]; !ok {
			return run
		}
		run++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

func activeDays(times []time.Time, loc *time.Location) map[string]struct{} {
	days := make(map[string]struct{}, len(times))
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		days[DayKey(t, loc)] = struct{}{}
	}
	return days
}
