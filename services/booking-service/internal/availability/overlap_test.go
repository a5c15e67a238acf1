package availability

import (
	"testing"

	"github.com/menulink/menulink/services/booking-service/internal/schedule"
)

func minuteOfDay(m int) schedule.TimeOfDay {
	return schedule.TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func interval(t *testing.T, start, end string) Interval {
	t.Helper()
	return Interval{Start: mustTime(t, start), End: mustTime(t, end)}
}

func TestOverlapsAdjacentIsNotConflict(t *testing.T) {
	// Back-to-back bookings share an instant boundary but not an instant.
	if Overlaps(mustTime(t, "09:00"), mustTime(t, "09:30"), mustTime(t, "09:30"), mustTime(t, "10:00")) {
		t.Fatal("candidate ending at booked start should not conflict")
	}
	if Overlaps(mustTime(t, "09:30"), mustTime(t, "10:00"), mustTime(t, "09:00"), mustTime(t, "09:30")) {
		t.Fatal("candidate starting at booked end should not conflict")
	}
}

func TestOverlapsStartsInside(t *testing.T) {
	if !Overlaps(mustTime(t, "09:15"), mustTime(t, "09:45"), mustTime(t, "09:00"), mustTime(t, "09:30")) {
		t.Fatal("candidate starting inside booked interval should conflict")
	}
}

func TestOverlapsEndsInside(t *testing.T) {
	if !Overlaps(mustTime(t, "08:45"), mustTime(t, "09:15"), mustTime(t, "09:00"), mustTime(t, "09:30")) {
		t.Fatal("candidate ending inside booked interval should conflict")
	}
}

func TestOverlapsCandidateContainsBooked(t *testing.T) {
	if !Overlaps(mustTime(t, "09:00"), mustTime(t, "11:00"), mustTime(t, "09:30"), mustTime(t, "10:00")) {
		t.Fatal("candidate containing booked interval should conflict")
	}
}

func TestOverlapsBookedContainsCandidate(t *testing.T) {
	if !Overlaps(mustTime(t, "09:30"), mustTime(t, "10:00"), mustTime(t, "09:00"), mustTime(t, "11:00")) {
		t.Fatal("candidate inside booked interval should conflict")
	}
}

func TestOverlapsIdenticalIntervals(t *testing.T) {
	if !Overlaps(mustTime(t, "09:00"), mustTime(t, "09:30"), mustTime(t, "09:00"), mustTime(t, "09:30")) {
		t.Fatal("identical intervals should conflict")
	}
}

// TestOverlapsTouchingPairsNeverConflict sweeps every touching-but-disjoint
// pair across a day at 15-minute granularity: half-open semantics must never
// report adjacency as overlap.
func TestOverlapsTouchingPairsNeverConflict(t *testing.T) {
	for startMin := 0; startMin+30 <= 24*60; startMin += 15 {
		a := minuteOfDay(startMin)
		boundary := minuteOfDay(startMin + 15)
		b := minuteOfDay(startMin + 30)

		if Overlaps(a, boundary, boundary, b) {
			t.Fatalf("[%s,%s) and [%s,%s) touch but must not conflict", a, boundary, boundary, b)
		}
		if Overlaps(boundary, b, a, boundary) {
			t.Fatalf("[%s,%s) and [%s,%s) touch but must not conflict", boundary, b, a, boundary)
		}
	}
}

func TestConflictsAny(t *testing.T) {
	booked := []Interval{
		interval(t, "09:00", "09:30"),
		interval(t, "11:00", "12:00"),
	}
	if !ConflictsAny(mustTime(t, "11:30"), mustTime(t, "12:30"), booked) {
		t.Fatal("expected conflict with second interval")
	}
	if ConflictsAny(mustTime(t, "09:30"), mustTime(t, "10:00"), booked) {
		t.Fatal("gap between bookings should be free")
	}
	if ConflictsAny(mustTime(t, "09:00"), mustTime(t, "09:30"), nil) {
		t.Fatal("no bookings means no conflict")
	}
}
