package ephemeris

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// SunCalc is a Provider backed by the suncalc algorithms. It is the default
// provider.
type SunCalc struct{}

// NewSunCalc creates a suncalc-backed provider.
func NewSunCalc() *SunCalc {
	return &SunCalc{}
}

// MoonIllumination returns the lit fraction of the Moon's disk at t.
func (s *SunCalc) MoonIllumination(t time.Time) (float64, error) {
	ill := suncalc.GetMoonIllumination(t.UTC())
	if math.IsNaN(ill.Fraction) {
		return 0, ErrNoData
	}
	return clamp01(ill.Fraction), nil
}

// MoonTimes returns moonrise and moonset for the UTC day containing t.
func (s *SunCalc) MoonTimes(t time.Time, obs Observer) (Events, error) {
	day := utcDay(t)
	mt := suncalc.GetMoonTimes(day, obs.Latitude, obs.Longitude, true)

	var ev Events
	if plausible(mt.Rise, day) {
		ev.Rise = mt.Rise.UTC()
		ev.HasRise = true
	}
	if plausible(mt.Set, day) {
		ev.Set = mt.Set.UTC()
		ev.HasSet = true
	}
	return ev, nil
}

// SunTimes returns sunrise and sunset for the UTC day containing t. suncalc
// solves for the solar transit nearest the instant it is given, so the query
// is pinned to noon UTC of that day.
func (s *SunCalc) SunTimes(t time.Time, obs Observer) (Events, error) {
	noon := utcDay(t).Add(12 * time.Hour)
	times := suncalc.GetTimes(noon, obs.Latitude, obs.Longitude)

	var ev Events
	if rise, ok := times[suncalc.Sunrise]; ok && plausible(rise.Value, noon) {
		ev.Rise = rise.Value.UTC()
		ev.HasRise = true
	}
	if set, ok := times[suncalc.Sunset]; ok && plausible(set.Value, noon) {
		ev.Set = set.Value.UTC()
		ev.HasSet = true
	}
	return ev, nil
}

// MoonAltitude returns the Moon's altitude at t in degrees. suncalc reports
// radians with refraction already applied.
func (s *SunCalc) MoonAltitude(t time.Time, obs Observer) (float64, error) {
	pos := suncalc.GetMoonPosition(t.UTC(), obs.Latitude, obs.Longitude)
	if math.IsNaN(pos.Altitude) {
		return 0, ErrNoData
	}
	return pos.Altitude * 180 / math.Pi, nil
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
