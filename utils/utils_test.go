package utils

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already exact", 85.00, 85.00},
		{"rounds down", 100.004, 100.00},
		{"rounds up", 100.006, 100.01},
		{"half cent up", 0.125, 0.13},
		{"negative", -15.006, -15.01},
		{"float drift", 150.0 + 100.0 + 0.1 + 0.2, 250.3},
		{"zero", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Round2(tc.in); got != tc.want {
				t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
