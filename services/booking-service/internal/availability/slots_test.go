package availability

import (
	"testing"

	"github.com/menulink/menulink/services/booking-service/internal/schedule"
)

func mustTime(t *testing.T, s string) schedule.TimeOfDay {
	t.Helper()
	tod, err := schedule.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tod
}

func startStrings(starts []schedule.TimeOfDay) []string {
	out := make([]string, len(starts))
	for i, s := range starts {
		out[i] = s.String()
	}
	return out
}

func TestSlotStartsThirtyMinuteService(t *testing.T) {
	starts := SlotStarts(mustTime(t, "09:00"), mustTime(t, "10:00"), 30)
	got := startStrings(starts)
	if len(got) != 2 || got[0] != "09:00" || got[1] != "09:30" {
		t.Fatalf("expected [09:00 09:30], got %v", got)
	}
}

func TestSlotStartsLongServiceStepsEveryThirty(t *testing.T) {
	// 09:30+45 = 10:15 > 10:00, so only the opening slot fits even though
	// the cadence is still every 30 minutes.
	starts := SlotStarts(mustTime(t, "09:00"), mustTime(t, "10:00"), 45)
	got := startStrings(starts)
	if len(got) != 1 || got[0] != "09:00" {
		t.Fatalf("expected [09:00], got %v", got)
	}
}

func TestSlotStartsShortServicePacksTighter(t *testing.T) {
	starts := SlotStarts(mustTime(t, "09:00"), mustTime(t, "10:00"), 15)
	got := startStrings(starts)
	want := []string{"09:00", "09:15", "09:30", "09:45"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSlotStartsExactFit(t *testing.T) {
	// A duration that exactly fills the window yields the single opening slot.
	starts := SlotStarts(mustTime(t, "09:00"), mustTime(t, "10:00"), 60)
	got := startStrings(starts)
	if len(got) != 1 || got[0] != "09:00" {
		t.Fatalf("expected [09:00], got %v", got)
	}
}

func TestSlotStartsEmptyCases(t *testing.T) {
	if s := SlotStarts(mustTime(t, "10:00"), mustTime(t, "09:00"), 30); len(s) != 0 {
		t.Fatalf("inverted window should yield no slots, got %v", startStrings(s))
	}
	if s := SlotStarts(mustTime(t, "09:00"), mustTime(t, "09:00"), 30); len(s) != 0 {
		t.Fatalf("zero window should yield no slots, got %v", startStrings(s))
	}
	if s := SlotStarts(mustTime(t, "09:00"), mustTime(t, "10:00"), 90); len(s) != 0 {
		t.Fatalf("oversized duration should yield no slots, got %v", startStrings(s))
	}
	if s := SlotStarts(mustTime(t, "09:00"), mustTime(t, "10:00"), 0); len(s) != 0 {
		t.Fatalf("non-positive duration should yield no slots, got %v", startStrings(s))
	}
	if s := SlotStarts(mustTime(t, "09:00"), mustTime(t, "10:00"), -30); len(s) != 0 {
		t.Fatalf("negative duration should yield no slots, got %v", startStrings(s))
	}
}

func TestSlotStartsCapped(t *testing.T) {
	// 00:00-23:59 with a 5-minute service would emit far more than the cap.
	starts := SlotStarts(schedule.TimeOfDay{}, mustTime(t, "23:59"), 5)
	if len(starts) != maxSlotsPerDay {
		t.Fatalf("expected cap of %d slots, got %d", maxSlotsPerDay, len(starts))
	}
}
