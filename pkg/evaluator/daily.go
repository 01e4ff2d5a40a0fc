package evaluator

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/moonhike/pkg/ephemeris"
	"github.com/chrissnell/moonhike/pkg/lunar"
)

// DailyComputer builds the astronomical record for a single local day.
type DailyComputer struct {
	provider ephemeris.Provider
	zenith   *ZenithFinder
}

func NewDailyComputer(p ephemeris.Provider, z *ZenithFinder) *DailyComputer {
	if z == nil {
		z = NewZenithFinder(p, DefaultZenithStep)
	}
	return &DailyComputer{provider: p, zenith: z}
}

// Compute returns the record for the calendar day of day in loc. The provider
// is queried with local midnight converted to UTC. Missing provider data
// leaves the matching fields nil; any other provider failure is returned.
func (c *DailyComputer) Compute(obs ephemeris.Observer, day time.Time, loc *time.Location) (DailyRecord, error) {
	f := newDayFrame(day, loc)
	rec := DailyRecord{Date: f.day}

	fraction, err := c.provider.MoonIllumination(f.query)
	if err != nil && !missing(err) {
		return rec, fmt.Errorf("moon illumination for %s: %w", f.day.Format(time.DateOnly), err)
	}
	rec.MoonIllumination = fraction * 100
	rec.Waxing = lunar.Calculate(f.query).IsWaxing
	rec.PhaseName = lunar.PhaseName(fraction, rec.Waxing)

	moon, err := c.provider.MoonTimes(f.query, obs)
	if err != nil && !missing(err) {
		return rec, fmt.Errorf("moon times for %s: %w", f.day.Format(time.DateOnly), err)
	}
	if moon.HasRise {
		rec.Moonrise = f.localize(moon.Rise)
	}
	if moon.HasSet {
		rec.Moonset = f.localize(moon.Set)
	}

	// The moon is still up from the previous night; its set belongs to the next UTC day.
	if rec.Moonrise != nil && rec.Moonset != nil && rec.Moonset.Before(*rec.Moonrise) {
		rec.Moonset = nil
		next, err := c.provider.MoonTimes(f.nextQuery(), obs)
		if err != nil && !missing(err) {
			return rec, fmt.Errorf("moon times for day after %s: %w", f.day.Format(time.DateOnly), err)
		}
		if next.HasSet && !next.Set.Before(*rec.Moonrise) {
			rec.Moonset = f.localize(next.Set)
		}
	}

	sun, err := c.provider.SunTimes(f.query, obs)
	if err != nil && !missing(err) {
		return rec, fmt.Errorf("sun times for %s: %w", f.day.Format(time.DateOnly), err)
	}
	if sun.HasSet {
		rec.Sunset = f.localize(sun.Set)
	}

	if rec.Moonrise != nil && rec.Moonset != nil && rec.Moonset.After(*rec.Moonrise) {
		z, err := c.zenith.FindBetween(obs, *rec.Moonrise, *rec.Moonset)
		switch {
		case err == nil:
			rec.Zenith = &z.Time
			rec.ZenithAltitude = z.Altitude
		case !missing(err):
			return rec, fmt.Errorf("moon zenith for %s: %w", f.day.Format(time.DateOnly), err)
		}
	}

	return rec, nil
}

func missing(err error) bool {
	return errors.Is(err, ephemeris.ErrNoData)
}
