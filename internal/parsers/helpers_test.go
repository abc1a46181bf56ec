package parsers

import (
	"testing"
	"time"
)

func float64Ptr(v float64) *float64 { return &v }

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"100", float64Ptr(100)},
		{"3.14", float64Ptr(3.14)},
		{"0,0285", float64Ptr(0.0285)},
		{"1.5e-3", float64Ptr(0.0015)},
		{"", nil},
		{"abc", nil},
		{"1,234,5", nil},
		{" 42 ", float64Ptr(42)},
	}

	for _, tt := range tests {
		got := ParseFloat(tt.input)
		if tt.want == nil {
			if got != nil {
				t.Errorf("ParseFloat(%q) = %v, want nil", tt.input, *got)
			}
		} else {
			if got == nil {
				t.Errorf("ParseFloat(%q) = nil, want %v", tt.input, *tt.want)
			} else if *got != *tt.want {
				t.Errorf("ParseFloat(%q) = %v, want %v", tt.input, *got, *tt.want)
			}
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-01 00:15:00", time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC)},
		{"2024-03-31T02:00:00", time.Date(2024, 3, 31, 2, 0, 0, 0, time.UTC)},
		{"2024-03-31T02:00:00+02:00", time.Date(2024, 3, 31, 2, 0, 0, 0, time.UTC)},
		{"31.12.2024 23:45", time.Date(2024, 12, 31, 23, 45, 0, 0, time.UTC)},
		{"45292", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"45292.25", time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)},
		// 00:15 as a serial is not exactly representable.
		{"45292.010416666664", time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.input)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "-3", "2024-13-01 00:00:00", "99999999"} {
		if _, err := ParseTimestamp(input); err == nil {
			t.Errorf("ParseTimestamp(%q) succeeded, want error", input)
		}
	}
}
