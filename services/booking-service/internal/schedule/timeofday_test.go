package schedule

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:05")
	if err != nil {
		t.Fatalf("ParseTimeOfDay failed: %v", err)
	}
	if got.Hour != 9 || got.Minute != 5 {
		t.Fatalf("expected 09:05, got %+v", got)
	}
	if got.String() != "09:05" {
		t.Fatalf("expected zero-padded string, got %q", got.String())
	}

	for _, bad := range []string{"", "9:00", "09:5", "24:00", "09:60", "0900", "ab:cd"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTimeOfDayAdd(t *testing.T) {
	start := TimeOfDay{Hour: 14, Minute: 45}
	end := start.Add(30)
	if end.String() != "15:15" {
		t.Fatalf("expected 15:15, got %s", end)
	}

	// No midnight rollover: late additions keep counting hours so same-day
	// ordering stays consistent.
	late := TimeOfDay{Hour: 23, Minute: 30}.Add(45)
	if late.String() != "24:15" {
		t.Fatalf("expected 24:15, got %s", late)
	}
	if !(TimeOfDay{Hour: 23, Minute: 59}).Before(late) {
		t.Fatal("24:15 should order after 23:59")
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	a := TimeOfDay{Hour: 9}
	b := TimeOfDay{Hour: 9, Minute: 30}
	if !a.Before(b) || b.Before(a) {
		t.Fatal("expected 09:00 < 09:30")
	}
	if !b.After(a) {
		t.Fatal("expected 09:30 > 09:00")
	}
	if !a.Equal(TimeOfDay{Hour: 9}) {
		t.Fatal("expected 09:00 == 09:00")
	}
}
