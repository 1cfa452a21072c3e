package services

import (
	"sync"
	"time"
)

var (
	manilaOnce sync.Once
	manila     *time.Location
)

// ManilaLocation returns the fixed reference timezone for lateness and
// time-of-day display. Falls back to a fixed +08:00 zone when tzdata is
// unavailable (Asia/Manila has no DST).
func ManilaLocation() *time.Location {
	manilaOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Manila")
		if err != nil {
			loc = time.FixedZone("+08", 8*60*60)
		}
		manila = loc
	})
	return manila
}

// IsLate reports whether a check-in timestamp falls at 09:00 or later in
// Manila wall-clock time. Empty or unparseable timestamps count as on time.
// Re-evaluated per record at display time, never persisted.
func IsLate(timestamp string) bool {
	if timestamp == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return false
	}
	return t.In(ManilaLocation()).Hour() > 8
}
