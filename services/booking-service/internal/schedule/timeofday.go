package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a zero-padded wall-clock time within a day. Bookings compare
// start/end times as "HH:MM" strings, which is only sound while both digits
// are always present; this type guarantees that instead of relying on
// incidental formatting.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a strict "HH:MM" 24h string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Add returns t shifted forward by mins. There is no midnight rollover: a
// result past 23:59 keeps counting hours (e.g. "24:15"), which still orders
// correctly against same-day times. Cross-midnight bookings are a known
// limitation and rejected upstream.
func (t TimeOfDay) Add(mins int) TimeOfDay {
	total := t.Minutes() + mins
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

func (t TimeOfDay) After(u TimeOfDay) bool {
	return t.Minutes() > u.Minutes()
}

func (t TimeOfDay) Equal(u TimeOfDay) bool {
	return t.Minutes() == u.Minutes()
}
