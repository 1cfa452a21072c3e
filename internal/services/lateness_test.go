package services

import (
	"fmt"
	"testing"
	"time"
)

func TestIsLateHourBoundaries(t *testing.T) {
	// 09:00 Manila and later is late; 08:59 and earlier is on time.
	for hour := 0; hour < 24; hour++ {
		hour := hour
		t.Run(fmt.Sprintf("hour %02d", hour), func(t *testing.T) {
			ts := time.Date(2024, 3, 15, hour, 30, 0, 0, ManilaLocation()).Format(time.RFC3339)
			want := hour > 8
			if got := IsLate(ts); got != want {
				t.Errorf("IsLate(%s) = %v, want %v", ts, got, want)
			}
		})
	}
}

func TestIsLateDegenerateInputs(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
	}{
		{"Empty timestamp", ""},
		{"Garbage timestamp", "not a timestamp"},
		{"Date only", "2024-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsLate(tt.timestamp) {
				t.Errorf("IsLate(%q) = true, want false", tt.timestamp)
			}
		})
	}
}

func TestIsLateUTCConversion(t *testing.T) {
	// 01:30 UTC is 09:30 in Manila (UTC+8): late even though the raw
	// string reads as an early hour.
	if !IsLate("2024-01-02T01:30:00Z") {
		t.Error("IsLate(01:30Z) = false, want true (09:30 Manila)")
	}
	// 23:59 UTC is 07:59 Manila the next day: on time.
	if IsLate("2024-01-02T23:59:00Z") {
		t.Error("IsLate(23:59Z) = true, want false (07:59 Manila)")
	}
}
