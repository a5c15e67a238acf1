package availability

import (
	"reflect"
	"testing"

	"github.com/menulink/menulink/services/booking-service/internal/schedule"
)

func openDay(t *testing.T, open, close string) schedule.DayHours {
	t.Helper()
	return schedule.DayHours{Open: mustTime(t, open), Close: mustTime(t, close)}
}

func TestBuildDayClosed(t *testing.T) {
	view := BuildDay(schedule.DayHours{Closed: true}, 30, nil, false, schedule.TimeOfDay{})
	if view.IsOpen {
		t.Fatal("closed day should not be open")
	}
	if len(view.Slots) != 0 {
		t.Fatalf("closed day should have no slots, got %d", len(view.Slots))
	}
}

func TestBuildDayMarksOccupied(t *testing.T) {
	booked := []Interval{interval(t, "09:30", "10:00")}
	view := BuildDay(openDay(t, "09:00", "10:30"), 30, booked, false, schedule.TimeOfDay{})

	if !view.IsOpen {
		t.Fatal("expected open day")
	}
	if len(view.Slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(view.Slots))
	}
	if !view.Slots[0].Available || view.Slots[0].Reason != "" {
		t.Fatalf("09:00 should be free, got %+v", view.Slots[0])
	}
	if view.Slots[1].Available || view.Slots[1].Reason != ReasonOccupied {
		t.Fatalf("09:30 should be occupied, got %+v", view.Slots[1])
	}
	if !view.Slots[2].Available {
		t.Fatalf("10:00 should be free, got %+v", view.Slots[2])
	}
	if view.AvailableCount != 2 {
		t.Fatalf("expected 2 available, got %d", view.AvailableCount)
	}
}

func TestBuildDayPastFiltering(t *testing.T) {
	now := mustTime(t, "09:30")
	view := BuildDay(openDay(t, "09:00", "10:30"), 30, nil, true, now)

	// A slot starting at or before now is past; later slots stay available.
	if view.Slots[0].Available || view.Slots[0].Reason != ReasonPast {
		t.Fatalf("09:00 should be past, got %+v", view.Slots[0])
	}
	if view.Slots[1].Available || view.Slots[1].Reason != ReasonPast {
		t.Fatalf("09:30 starts at now and should be past, got %+v", view.Slots[1])
	}
	if !view.Slots[2].Available {
		t.Fatalf("10:00 should be available, got %+v", view.Slots[2])
	}
}

func TestBuildDayFutureDatesNeverPast(t *testing.T) {
	now := mustTime(t, "23:00")
	view := BuildDay(openDay(t, "09:00", "10:00"), 30, nil, false, now)
	for _, s := range view.Slots {
		if s.Reason == ReasonPast {
			t.Fatalf("future date slot %s marked past", s.Time)
		}
	}
}

func TestBuildDayPastOverridesOccupied(t *testing.T) {
	booked := []Interval{interval(t, "09:00", "09:30")}
	view := BuildDay(openDay(t, "09:00", "10:00"), 30, booked, true, mustTime(t, "12:00"))
	if view.Slots[0].Reason != ReasonPast {
		t.Fatalf("past takes precedence over occupied, got %q", view.Slots[0].Reason)
	}
}

func TestBuildDayEndTimes(t *testing.T) {
	view := BuildDay(openDay(t, "09:00", "10:00"), 45, nil, false, schedule.TimeOfDay{})
	if len(view.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(view.Slots))
	}
	if view.Slots[0].EndTime.String() != "09:45" {
		t.Fatalf("expected end 09:45, got %s", view.Slots[0].EndTime)
	}
}

func TestBuildDayIdempotent(t *testing.T) {
	booked := []Interval{interval(t, "14:00", "14:30")}
	day := openDay(t, "09:00", "17:00")
	now := mustTime(t, "11:10")

	first := BuildDay(day, 30, booked, true, now)
	second := BuildDay(day, 30, booked, true, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical availability")
	}
}
