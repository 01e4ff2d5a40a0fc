package ephemeris

import (
	"time"

	"github.com/chrissnell/moonhike/pkg/lunar"
	"github.com/chrissnell/moonhike/pkg/solar"
)

// moonHorizonDeg is the topocentric altitude of the Moon's center at rise and
// set: 34' of refraction plus a mean 15.5' semidiameter below the horizon.
const moonHorizonDeg = -0.833

const (
	defaultSearchStep = 10 * time.Minute
	defaultSearchTol  = 30 * time.Second
)

// Meeus is a Provider backed by the Meeus lunar theory for the Moon and the
// NOAA sunrise equation for the Sun. Rise and set are found by sampling the
// topocentric altitude across the UTC day and bisecting the horizon crossing.
type Meeus struct {
	step time.Duration
	tol  time.Duration
}

// NewMeeus creates a meeus-backed provider.
func NewMeeus() *Meeus {
	return &Meeus{
		step: defaultSearchStep,
		tol:  defaultSearchTol,
	}
}

// MoonIllumination returns the lit fraction of the Moon's disk at t.
func (m *Meeus) MoonIllumination(t time.Time) (float64, error) {
	return lunar.Illumination(t), nil
}

// MoonTimes returns moonrise and moonset for the UTC day containing t.
func (m *Meeus) MoonTimes(t time.Time, obs Observer) (Events, error) {
	if err := obs.Validate(); err != nil {
		return Events{}, err
	}

	start := utcDay(t)
	end := start.Add(24 * time.Hour)
	alt := func(x time.Time) float64 {
		return lunar.Altitude(x, obs.Latitude, obs.Longitude)
	}

	var ev Events
	if rise, ok := findCrossing(alt, start, end, moonHorizonDeg, crossingUp, m.step, m.tol); ok {
		ev.Rise = rise.UTC()
		ev.HasRise = true
	}
	if set, ok := findCrossing(alt, start, end, moonHorizonDeg, crossingDown, m.step, m.tol); ok {
		ev.Set = set.UTC()
		ev.HasSet = true
	}
	return ev, nil
}

// SunTimes returns sunrise and sunset for the UTC day containing t.
func (m *Meeus) SunTimes(t time.Time, obs Observer) (Events, error) {
	if err := obs.Validate(); err != nil {
		return Events{}, err
	}

	rise, set, ok := solar.SunriseSunset(t, obs.Latitude, obs.Longitude)
	if !ok {
		return Events{}, nil
	}
	return Events{Rise: rise, Set: set, HasRise: true, HasSet: true}, nil
}

// MoonAltitude returns the Moon's topocentric altitude at t in degrees.
func (m *Meeus) MoonAltitude(t time.Time, obs Observer) (float64, error) {
	if err := obs.Validate(); err != nil {
		return 0, err
	}
	return lunar.Altitude(t, obs.Latitude, obs.Longitude), nil
}
