package ephemeris

import (
	"time"
)

// altitudeFunc returns an altitude in degrees at time t.
type altitudeFunc func(t time.Time) float64

// crossing describes whether we are looking for a rising or setting event.
type crossing int

const (
	// crossingUp means altitude is increasing through the target value (rise).
	crossingUp crossing = iota
	// crossingDown means altitude is decreasing through the target value (set).
	crossingDown
)

// findCrossing searches [start, end] for the first instant where f crosses
// targetDeg in the requested direction. It samples at step to bracket the
// event, then bisects the bracket down to tol.
func findCrossing(f altitudeFunc, start, end time.Time, targetDeg float64, dir crossing, step, tol time.Duration) (time.Time, bool) {
	if !start.Before(end) || step <= 0 {
		return time.Time{}, false
	}

	prevT := start
	prevAlt := f(prevT) - targetDeg

	for t := start.Add(step); ; t = t.Add(step) {
		if t.After(end) {
			t = end
		}
		alt := f(t) - targetDeg

		if hasCrossing(prevAlt, alt, dir) {
			return bisect(f, prevT, t, prevAlt, targetDeg, dir, tol), true
		}
		if !t.Before(end) {
			break
		}
		prevT, prevAlt = t, alt
	}

	return time.Time{}, false
}

func hasCrossing(a1, a2 float64, dir crossing) bool {
	if dir == crossingUp {
		return a1 < 0 && a2 >= 0
	}
	return a1 > 0 && a2 <= 0
}

func bisect(f altitudeFunc, a, b time.Time, altA, targetDeg float64, dir crossing, tol time.Duration) time.Time {
	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		altM := f(mid) - targetDeg

		if hasCrossing(altA, altM, dir) {
			b = mid
		} else {
			a = mid
			altA = altM
		}
	}
	return a.Add(b.Sub(a) / 2)
}
