package util

import "testing"

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"no bonding configured", "No bonding configured"},
		{"Already", "Already"},
		{"x", "X"},
		{"", ""},
		{"1st", "1st"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CapitalizeFirst(tt.input); got != tt.want {
				t.Errorf("CapitalizeFirst(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
