package handlers

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Maria's Tacos", "maria-s-tacos"},
		{"  The   Corner Cafe  ", "the-corner-cafe"},
		{"CAFÉ 24/7", "café-24-7"},
		{"---", ""},
		{"plain", "plain"},
		{"Already-Hyphenated Name", "already-hyphenated-name"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugSuffix(t *testing.T) {
	a, b := slugSuffix(), slugSuffix()
	if len(a) != 6 || len(b) != 6 {
		t.Fatalf("suffix lengths = %d, %d, want 6", len(a), len(b))
	}
	if a == b {
		t.Fatal("two suffixes collided; want random values")
	}
}
