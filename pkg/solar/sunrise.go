// Package solar computes sunrise and sunset for a location and calendar day.
package solar

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunriseSunset returns sunrise and sunset in UTC for the UTC calendar date of
// day at the specified latitude and longitude. The sunset of a western
// longitude can fall on the following UTC date; it still belongs to this day.
// ok is false for polar day (sun never sets) or polar night (sun never rises).
func SunriseSunset(day time.Time, latitude, longitude float64) (rise, set time.Time, ok bool) {
	u := day.UTC()
	rise, set = sunrise.SunriseSunset(latitude, longitude, u.Year(), u.Month(), u.Day())
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return rise.UTC(), set.UTC(), true
}

// DayLength returns the time between sunrise and sunset, or zero when the sun
// does not both rise and set on that day.
func DayLength(day time.Time, latitude, longitude float64) time.Duration {
	rise, set, ok := SunriseSunset(day, latitude, longitude)
	if !ok {
		return 0
	}
	return set.Sub(rise)
}

// FormatSunTime formats an event instant as a wall-clock string in the given
// timezone location. Zero times format as an empty string.
func FormatSunTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("3:04 PM")
}
