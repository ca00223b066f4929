package tui

import "testing"

func TestColorFGBGDark(t *testing.T) {
	tests := []struct {
		in       string
		dark, ok bool
	}{
		{"", false, false},
		{"15;0", true, true},
		{"0;15", false, true},
		{"12;default;8", false, true},
		{"0;x", false, false},
	}
	for _, tt := range tests {
		t.Setenv("COLORFGBG", tt.in)
		dark, ok := colorFGBGDark()
		if dark != tt.dark || ok != tt.ok {
			t.Fatalf("COLORFGBG=%q: got (%v,%v), want (%v,%v)", tt.in, dark, ok, tt.dark, tt.ok)
		}
	}
}
