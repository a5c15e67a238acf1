package availability

import "github.com/menulink/menulink/services/booking-service/internal/schedule"

// Interval is a half-open [Start, End) window within one calendar day.
type Interval struct {
	Start schedule.TimeOfDay
	End   schedule.TimeOfDay
}

// Overlaps reports whether candidate [startA, endA) conflicts with booked
// [startB, endB). Adjacency is not a conflict: a booking ending at 09:30
// does not block one starting at 09:30.
//
// The check is the union of three cases: the candidate starts inside the
// booked interval, ends inside it, or fully contains it. This is the
// long-standing booking policy; do not "simplify" it without re-running the
// adjacency and containment tests.
func Overlaps(startA, endA, startB, endB schedule.TimeOfDay) bool {
	as, ae := startA.Minutes(), endA.Minutes()
	bs, be := startB.Minutes(), endB.Minutes()

	if as >= bs && as < be {
		return true
	}
	if ae > bs && ae <= be {
		return true
	}
	if as <= bs && ae >= be {
		return true
	}
	return false
}

// ConflictsAny reports whether [start, end) overlaps any of the booked
// intervals. Callers supply only intervals that can actually block: same
// business, same day, non-terminal status, and (on updates) excluding the
// booking being edited.
func ConflictsAny(start, end schedule.TimeOfDay, booked []Interval) bool {
	for _, b := range booked {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
