package handlers

import "testing"

func TestValidateHoursAccepts(t *testing.T) {
	cases := []map[string]string{
		{},
		{"mon": "09:00-17:00"},
		{"mon": "09:00-17:00", "sun": ""},
		{"sat": "00:00-23:59"},
		{"tue": "  "},
	}
	for _, hours := range cases {
		if err := ValidateHours(hours); err != nil {
			t.Errorf("ValidateHours(%v) = %v, want nil", hours, err)
		}
	}
}

func TestValidateHoursRejects(t *testing.T) {
	cases := []struct {
		name  string
		hours map[string]string
	}{
		{"unknown day", map[string]string{"monday": "09:00-17:00"}},
		{"no separator", map[string]string{"mon": "09:00"}},
		{"bad open", map[string]string{"mon": "9:00-17:00"}},
		{"bad close", map[string]string{"mon": "09:00-25:00"}},
		{"open equals close", map[string]string{"mon": "09:00-09:00"}},
		{"open after close", map[string]string{"mon": "17:00-09:00"}},
		{"garbage", map[string]string{"mon": "all day"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateHours(tc.hours); err == nil {
				t.Errorf("ValidateHours(%v) = nil, want error", tc.hours)
			}
		})
	}
}
