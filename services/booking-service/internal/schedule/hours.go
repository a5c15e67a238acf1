package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DayHours is one weekday's opening window. A closed day has Closed set and
// zero open/close times.
type DayHours struct {
	Open   TimeOfDay
	Close  TimeOfDay
	Closed bool
}

// WeekHours maps weekday keys (mon..sun) to opening windows.
type WeekHours map[string]DayHours

var dayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// DayKey returns the mon..sun key for a date.
func DayKey(date time.Time) string {
	return dayKeys[int(date.Weekday())]
}

// ParseDayHours parses "" (closed) or "HH:MM-HH:MM" with open strictly
// before close.
func ParseDayHours(s string) (DayHours, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DayHours{Closed: true}, nil
	}
	open, close, ok := strings.Cut(s, "-")
	if !ok {
		return DayHours{}, fmt.Errorf("invalid hours %q (want HH:MM-HH:MM)", s)
	}
	openT, err := ParseTimeOfDay(strings.TrimSpace(open))
	if err != nil {
		return DayHours{}, err
	}
	closeT, err := ParseTimeOfDay(strings.TrimSpace(close))
	if err != nil {
		return DayHours{}, err
	}
	if !openT.Before(closeT) {
		return DayHours{}, fmt.Errorf("open %s must precede close %s", openT, closeT)
	}
	return DayHours{Open: openT, Close: closeT}, nil
}

// ParseWeekHours parses a weekday->hours-string map as stored on the
// business row. Any malformed entry rejects the whole map so the caller can
// fall back to DefaultWeekHours; missing keys mean closed.
func ParseWeekHours(raw map[string]string) (WeekHours, error) {
	week := make(WeekHours, len(dayKeys))
	for _, key := range dayKeys {
		day, err := ParseDayHours(raw[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		week[key] = day
	}
	return week, nil
}

// DefaultWeekHours is the schedule used when a business has missing or
// malformed hours data: weekdays 09:00-17:00, Saturday 10:00-16:00, Sunday
// closed. Falling back instead of treating the business as closed is a
// deliberate resilience choice.
func DefaultWeekHours() WeekHours {
	weekday := DayHours{Open: TimeOfDay{Hour: 9}, Close: TimeOfDay{Hour: 17}}
	return WeekHours{
		"mon": weekday,
		"tue": weekday,
		"wed": weekday,
		"thu": weekday,
		"fri": weekday,
		"sat": {Open: TimeOfDay{Hour: 10}, Close: TimeOfDay{Hour: 16}},
		"sun": {Closed: true},
	}
}
