package core

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   float64
	}{
		{1.005, 2, 1.0},
		{0.125, 2, 0.12},
		{2.675, 2, 2.67},
		{0.285, 2, 0.28},
		{-1.005, 2, -1.0},
		{-0.125, 2, -0.12},
		{0.27322404371584696, 2, 0.27},
		{2.7322404371584703, 2, 2.73},
		{0.114583333, 4, 0.1146},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestSumRoundedIsExact(t *testing.T) {
	values := make([]float64, 0, 366)
	for i := 0; i < 366; i++ {
		values = append(values, 0.1)
	}
	if got := SumRounded(values); got != 36.6 {
		t.Fatalf("SumRounded = %v, want 36.6", got)
	}
	if got := SumRounded(nil); got != 0 {
		t.Fatalf("SumRounded(nil) = %v, want 0", got)
	}
}
