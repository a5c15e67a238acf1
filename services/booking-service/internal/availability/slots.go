package availability

import "github.com/menulink/menulink/services/booking-service/internal/schedule"

// maxSlotsPerDay caps slot generation so malformed schedule data can never
// produce an unbounded loop.
const maxSlotsPerDay = 100

// SlotStarts enumerates candidate start times for a service of durationMins
// within [open, close). Each emitted start fits the full duration before
// close. The cadence is every 30 minutes, or every durationMins for services
// shorter than that, so short services pack tighter while long services
// still get a slot each half hour.
//
// Non-positive durations yield no slots; callers reject them as invalid
// input separately.
func SlotStarts(open, close schedule.TimeOfDay, durationMins int) []schedule.TimeOfDay {
	if durationMins <= 0 {
		return nil
	}
	if !open.Before(close) {
		return nil
	}

	step := durationMins
	if step > 30 {
		step = 30
	}

	var starts []schedule.TimeOfDay
	for cur := open; cur.Minutes()+durationMins <= close.Minutes(); cur = cur.Add(step) {
		starts = append(starts, cur)
		if len(starts) >= maxSlotsPerDay {
			break
		}
	}
	return starts
}
