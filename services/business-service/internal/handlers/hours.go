package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

var weekdayKeys = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// ValidateHours checks a weekly hours map: keys must be three-letter day
// names, values either "" (closed) or "HH:MM-HH:MM" with open strictly
// before close.
func ValidateHours(hours map[string]string) error {
	known := make(map[string]bool, len(weekdayKeys))
	for _, k := range weekdayKeys {
		known[k] = true
	}
	for day, window := range hours {
		if !known[day] {
			return fmt.Errorf("unknown day %q", day)
		}
		if strings.TrimSpace(window) == "" {
			continue
		}
		open, close, ok := strings.Cut(window, "-")
		if !ok {
			return fmt.Errorf("%s: want \"HH:MM-HH:MM\" or empty", day)
		}
		openMins, err := minutesOfDay(open)
		if err != nil {
			return fmt.Errorf("%s: %v", day, err)
		}
		closeMins, err := minutesOfDay(close)
		if err != nil {
			return fmt.Errorf("%s: %v", day, err)
		}
		if openMins >= closeMins {
			return fmt.Errorf("%s: open must be before close", day)
		}
	}
	return nil
}

func minutesOfDay(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}
