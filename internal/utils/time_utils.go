package utils

import (
	"time"
	_ "time/tzdata"
)

var (
	newYorkLoc = loadLocation("America/New_York", -5)
	tokyoLoc   = loadLocation("Asia/Tokyo", 9)
)

// loadLocation falls back to a fixed offset when the zone cannot be loaded
func loadLocation(name string, offsetHours int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offsetHours*3600)
	}
	return loc
}

// NewYorkLocation returns the America/New_York *time.Location
func NewYorkLocation() *time.Location {
	return newYorkLoc
}

// TokyoLocation returns the Asia/Tokyo *time.Location
func TokyoLocation() *time.Location {
	return tokyoLoc
}

// IsWeekday reports whether t falls Monday through Friday in its own location
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ClockOffset returns the time elapsed since local midnight of t
func ClockOffset(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
