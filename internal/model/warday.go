package model

import (
	"strings"
	"time"
)

// DayNames are the display names for each war day index
var DayNames = [WarDays]string{"Quinta-feira", "Sexta-feira", "Sábado", "Domingo"}

// dayKeywords maps accepted day tokens to war day indices
var dayKeywords = map[string]int{
	"quinta":  0,
	"sexta":   1,
	"sabado":  2,
	"sábado":  2,
	"domingo": 3,
}

// ParseDayKeyword resolves a day token ("quinta", "sexta-feira", ...) to
// its war day index. The "-feira" suffix is accepted on weekday names.
func ParseDayKeyword(token string) (int, bool) {
	token = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(token)), "-feira")
	idx, ok := dayKeywords[token]
	return idx, ok
}

// WarWeekClosed is the pseudo day index for Monday through Wednesday,
// when no earlier day accepts entries anymore.
const WarWeekClosed = WarDays

// entryTolerance lets late entries through until this long after
// midnight; it also covers the UTC-3 offset of the clan's timezone.
const entryTolerance = 9 * time.Hour

// CurrentWarDay maps a point in time to the war day currently open for
// entry: 0-3 during Thursday-Sunday, WarWeekClosed from Monday to
// Wednesday. The tolerance window shifts the day boundary so that early
// mornings still count as the previous day.
func CurrentWarDay(now time.Time) int {
	switch now.Add(-entryTolerance).Weekday() {
	case time.Thursday:
		return 0
	case time.Friday:
		return 1
	case time.Saturday:
		return 2
	case time.Sunday:
		return 3
	default:
		return WarWeekClosed
	}
}

// InferredWarDay returns the war day for a dateless quick-score entry,
// or false when the war week is closed.
func InferredWarDay(now time.Time) (int, bool) {
	day := CurrentWarDay(now)
	if day == WarWeekClosed {
		return 0, false
	}
	return day, true
}

// InitialDailyPoints seeds the daily points array for a player
// registered mid-cycle: days already past are marked -1 (not due for
// the newcomer), remaining days start at 0.
func InitialDailyPoints(now time.Time) [WarDays]int {
	var points [WarDays]int
	switch now.Weekday() {
	case time.Friday:
		points[0] = -1
	case time.Saturday:
		points[0] = -1
		points[1] = -1
	case time.Sunday:
		points[0] = -1
		points[1] = -1
		points[2] = -1
	}
	return points
}
