package availability

import "github.com/menulink/menulink/services/booking-service/internal/schedule"

// Slot reasons for an unavailable candidate.
const (
	ReasonOccupied = "occupied"
	ReasonPast     = "past"
)

// Slot is one candidate booking window in a day's availability view.
type Slot struct {
	Time      schedule.TimeOfDay
	EndTime   schedule.TimeOfDay
	Available bool
	Reason    string
}

// DayView is the availability of one business day for one service duration.
type DayView struct {
	IsOpen         bool
	OpenTime       schedule.TimeOfDay
	CloseTime      schedule.TimeOfDay
	Slots          []Slot
	AvailableCount int
}

// BuildDay produces the availability view for one day. booked must already
// be filtered to blocking intervals (same business and day, non-terminal
// status). When today is true, slots starting at or before now are marked
// past; future dates never are. The caller injects now so tests can pin the
// clock.
func BuildDay(day schedule.DayHours, durationMins int, booked []Interval, today bool, now schedule.TimeOfDay) DayView {
	if day.Closed {
		return DayView{}
	}

	view := DayView{
		IsOpen:    true,
		OpenTime:  day.Open,
		CloseTime: day.Close,
	}

	for _, start := range SlotStarts(day.Open, day.Close, durationMins) {
		end := start.Add(durationMins)
		slot := Slot{Time: start, EndTime: end, Available: true}
		if ConflictsAny(start, end, booked) {
			slot.Available = false
			slot.Reason = ReasonOccupied
		}
		if today && !start.After(now) {
			slot.Available = false
			slot.Reason = ReasonPast
		}
		if slot.Available {
			view.AvailableCount++
		}
		view.Slots = append(view.Slots, slot)
	}
	return view
}
