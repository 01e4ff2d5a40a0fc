package evaluator

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/moonhike/pkg/ephemeris"
)

// DefaultZenithStep is the moon altitude sampling interval.
const DefaultZenithStep = 2 * time.Minute

// Zenith is the highest sampled moon position in a window.
type Zenith struct {
	Time     time.Time
	Altitude float64 // degrees
}

// ZenithFinder locates the moon's highest point in a time window by sampling
// its altitude at a fixed step.
type ZenithFinder struct {
	provider ephemeris.Provider
	step     time.Duration
}

// NewZenithFinder returns a finder sampling every step. A non-positive step
// selects DefaultZenithStep.
func NewZenithFinder(p ephemeris.Provider, step time.Duration) *ZenithFinder {
	if step <= 0 {
		step = DefaultZenithStep
	}
	return &ZenithFinder{provider: p, step: step}
}

// Find searches the wall-clock window [start, end] on day in loc. When end is
// not after start the window ends on the following day.
func (z *ZenithFinder) Find(obs ephemeris.Observer, day time.Time, start, end WallClock, loc *time.Location) (Zenith, error) {
	from := start.On(day, loc)
	to := end.On(day, loc)
	if !to.After(from) {
		to = end.On(from.AddDate(0, 0, 1), loc)
	}
	return z.FindBetween(obs, from, to)
}

// FindBetween samples the open interval (from, to) and returns the first
// sample with the greatest altitude. Windows shorter than two steps are
// sampled once at their midpoint. The returned time is in from's location.
func (z *ZenithFinder) FindBetween(obs ephemeris.Observer, from, to time.Time) (Zenith, error) {
	if !to.After(from) {
		return Zenith{}, fmt.Errorf("empty zenith window %s - %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	var instants []time.Time
	if span := to.Sub(from); span < 2*z.step {
		instants = append(instants, from.Add(span/2))
	} else {
		for t := from.Add(z.step); t.Before(to); t = t.Add(z.step) {
			instants = append(instants, t)
		}
	}

	altitudes := make([]float64, len(instants))
	for i, t := range instants {
		alt, err := z.provider.MoonAltitude(t, obs)
		if err != nil {
			return Zenith{}, fmt.Errorf("moon altitude at %s: %w", t.UTC().Format(time.RFC3339), err)
		}
		altitudes[i] = alt
	}

	best := floats.MaxIdx(altitudes)
	return Zenith{Time: instants[best].In(from.Location()), Altitude: altitudes[best]}, nil
}
