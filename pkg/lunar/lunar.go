// Package lunar provides moon phase and position calculations built on the
// Meeus algorithms (ELP-2000/82 truncated series). Illumination is accurate to
// well under 1% and topocentric altitude to a few arcminutes, which is more than
// enough to bracket rise, set and transit times to the minute.
package lunar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonillum"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// SynodicMonth is the average length of the lunar cycle in days
const SynodicMonth = 29.530588853

// earthRadiusKm is the equatorial radius used for the lunar parallax.
const earthRadiusKm = 6378.14

// MoonPhase contains calculated moon phase information
type MoonPhase struct {
	Phase        float64 // Phase fraction [0,1): 0=new, 0.5=full
	Elongation   float64 // Sun→Moon ecliptic longitude difference in degrees [0,360)
	Illumination float64 // Illuminated fraction [0,1]: 0=new, 1=full
	AgeDays      float64 // Days since new moon [0,SynodicMonth)
	IsWaxing     bool    // True when moon is waxing (getting fuller)
	PhaseName    string  // Human-readable phase name
}

// Calculate computes the moon phase for a given instant
func Calculate(t time.Time) MoonPhase {
	jde := julian.TimeToJD(t.UTC())

	lambdaMoon, _, _ := moonposition.Position(jde)
	lambdaSun := solar.ApparentLongitude(base.J2000Century(jde))

	elongation := normalizeAngle(lambdaMoon.Deg() - lambdaSun.Deg())
	phase := elongation / 360.0
	illumination := Illumination(t)
	isWaxing := elongation < 180

	return MoonPhase{
		Phase:        phase,
		Elongation:   elongation,
		Illumination: illumination,
		AgeDays:      phase * SynodicMonth,
		IsWaxing:     isWaxing,
		PhaseName:    PhaseName(illumination, isWaxing),
	}
}

// Illumination returns the illuminated fraction of the Moon's disk at t.
func Illumination(t time.Time) float64 {
	i := moonillum.PhaseAngle3(julian.TimeToJD(t.UTC()))
	k := base.Illuminated(i)
	if k < 0 {
		return 0
	}
	if k > 1 {
		return 1
	}
	return k
}

// Altitude returns the Moon's topocentric altitude in degrees for an observer
// at latDeg/lonDeg (east positive). Refraction is not applied; rise/set
// searches fold it into their horizon altitude instead.
func Altitude(t time.Time, latDeg, lonDeg float64) float64 {
	jd := julian.TimeToJD(t.UTC())

	lambda, beta, distanceKm := moonposition.Position(jd)
	sEps, cEps := nutation.MeanObliquity(jd).Sincos()
	ra, dec := coord.EclToEq(lambda, beta, sEps, cEps)

	// Local hour angle from Greenwich mean sidereal time
	lst := sidereal.Mean(jd).Rad() + unit.AngleFromDeg(lonDeg).Rad()
	hourAngle := lst - ra.Rad()

	sinPhi, cosPhi := unit.AngleFromDeg(latDeg).Sincos()
	sinAlt := sinPhi*dec.Sin() + cosPhi*dec.Cos()*math.Cos(hourAngle)
	alt := math.Asin(sinAlt)

	// Geocentric → topocentric: the Moon appears lower by π·cos(h)
	parallax := math.Asin(earthRadiusKm / distanceKm)
	alt -= parallax * math.Cos(alt)

	return unit.Angle(alt).Deg()
}

// PhaseName returns the 8-phase name for an illuminated fraction and direction
func PhaseName(illumination float64, isWaxing bool) string {
	switch {
	case illumination < 0.01:
		return "New Moon"
	case illumination > 0.99:
		return "Full Moon"
	case illumination >= 0.49 && illumination <= 0.51:
		if isWaxing {
			return "First Quarter"
		}
		return "Third Quarter"
	case illumination < 0.50:
		if isWaxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if isWaxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}

// normalizeAngle wraps an angle to the range [0, 360)
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}
