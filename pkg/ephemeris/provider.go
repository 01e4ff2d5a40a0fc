// Package ephemeris defines the astronomical position provider consumed by the
// night evaluator, along with library-backed implementations of it.
//
// A Provider answers four questions for an instant and an observer: how much of
// the Moon is lit, when the Moon rises and sets, when the Sun rises and sets,
// and how high the Moon stands. Rise and set queries always refer to the UTC
// calendar day that contains the supplied instant.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoData is returned when a provider cannot produce a value for the requested
// instant and location. Callers treat it as "event absent" rather than a failure.
var ErrNoData = errors.New("ephemeris: no data for instant and location")

// Observer is a position on the Earth's surface in decimal degrees,
// north and east positive.
type Observer struct {
	Latitude  float64
	Longitude float64
}

// Validate reports whether the observer lies on the globe.
func (o Observer) Validate() error {
	if math.IsNaN(o.Latitude) || o.Latitude < -90 || o.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", o.Latitude)
	}
	if math.IsNaN(o.Longitude) || o.Longitude < -180 || o.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", o.Longitude)
	}
	return nil
}

// Events holds a rise and a set instant in UTC. Either may be missing, in which
// case the matching Has flag is false and the time is zero.
type Events struct {
	Rise    time.Time
	Set     time.Time
	HasRise bool
	HasSet  bool
}

// Provider is the astronomical collaborator used by the evaluator.
type Provider interface {
	// MoonIllumination returns the illuminated fraction [0,1] of the Moon at t.
	MoonIllumination(t time.Time) (float64, error)

	// MoonTimes returns moonrise and moonset for the UTC day containing t.
	MoonTimes(t time.Time, obs Observer) (Events, error)

	// SunTimes returns sunrise and sunset for the UTC day containing t.
	SunTimes(t time.Time, obs Observer) (Events, error)

	// MoonAltitude returns the Moon's topocentric altitude at t in degrees.
	MoonAltitude(t time.Time, obs Observer) (float64, error)
}

// New returns the provider registered under name. An empty name selects suncalc.
func New(name string) (Provider, error) {
	switch name {
	case "", "suncalc":
		return NewSunCalc(), nil
	case "meeus":
		return NewMeeus(), nil
	default:
		return nil, fmt.Errorf("unknown ephemeris provider: %q (use 'suncalc' or 'meeus')", name)
	}
}

// utcDay returns midnight UTC of the UTC calendar day containing t.
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// plausible rejects the garbage times some algorithms emit when an event does
// not occur (NaN julian dates, epoch times, far-away cycles).
func plausible(event, ref time.Time) bool {
	if event.IsZero() {
		return false
	}
	d := event.Sub(ref)
	return d > -48*time.Hour && d < 48*time.Hour
}
