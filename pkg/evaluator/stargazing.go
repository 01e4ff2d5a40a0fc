package evaluator

import (
	"fmt"
	"math"
	"time"
)

const (
	reasonGazeAbsent       = "Moon is not visible during dark hours - perfect for star gazing!"
	reasonGazeVisibleLow   = "Moon is visible but illumination is low - decent for star gazing."
	reasonGazeVisibleMod   = "Moon is visible and illumination is moderate - acceptable for star gazing."
	reasonGazeLow          = "Moon illumination is low but moon may be visible - decent for star gazing."
	reasonGazeModerate     = "Moon illumination is moderate - acceptable for star gazing."
	reasonGazeTooBright    = "Moon illumination is too high for optimal star gazing."
	reasonGazeNotEvaluated = "Star gazing was not evaluated."
)

// Illumination bands, in percent.
const (
	lowIllumination      = 20
	moderateIllumination = 50
)

// earlyMorningHour is the hour before which a moonrise is counted against the
// following night's window.
const earlyMorningHour = 6

// NotEvaluated is the star-gazing assessment used when star gazing was not requested.
var NotEvaluated = Assessment{Verdict: No, Reason: reasonGazeNotEvaluated}

// ClassifyStarGazing rates a night for star gazing. fallbackTZ is used when
// the conditions carry no timezone.
func ClassifyStarGazing(rec DailyRecord, c StarGazingConditions, fallbackTZ string) (Assessment, error) {
	p, err := c.plan(fallbackTZ)
	if err != nil {
		return Assessment{}, err
	}
	return classifyStarGazing(rec, p), nil
}

// gazeWindow is the star-gazing window of one night with moonrise and moonset
// moved onto it.
type gazeWindow struct {
	start, end  time.Time
	rise, set   *time.Time // raw
	adjRise     *time.Time
	adjSet      *time.Time
	illuminated float64
}

func newGazeWindow(rec DailyRecord, p gazePlan) gazeWindow {
	anchor := rec.Date
	if rec.Moonrise != nil {
		anchor = *rec.Moonrise
	}
	w := gazeWindow{
		start:       p.start.On(anchor, p.loc),
		end:         p.end.On(anchor, p.loc),
		rise:        rec.Moonrise,
		set:         rec.Moonset,
		illuminated: rec.MoonIllumination,
	}
	if w.end.Before(w.start) {
		w.end = w.end.AddDate(0, 0, 1)
	}

	if w.rise != nil {
		r := w.rise.In(p.loc)
		adj := WallClock{Hour: r.Hour(), Minute: r.Minute()}.On(w.start, p.loc)
		if r.Hour() < earlyMorningHour && adj.Before(w.start) {
			adj = adj.AddDate(0, 0, 1)
		}
		w.adjRise = &adj
	}
	if w.set != nil {
		s := w.set.In(p.loc)
		adj := WallClock{Hour: s.Hour(), Minute: s.Minute()}.On(w.start, p.loc)
		if adj.Before(w.start) {
			adj = adj.AddDate(0, 0, 1)
		}
		w.adjSet = &adj
	}
	return w
}

func (w gazeWindow) risesDuring() bool {
	return w.adjRise != nil && within(*w.adjRise, w.start, w.end)
}

func (w gazeWindow) absent() bool {
	return w.rise == nil || w.set == nil ||
		(w.adjRise != nil && w.adjRise.After(w.end)) ||
		(w.adjSet != nil && w.adjSet.Before(w.start))
}

// visibleDuring compares the raw rise and set against the window.
func (w gazeWindow) visibleDuring() bool {
	if w.rise == nil || w.set == nil {
		return false
	}
	rise, set := *w.rise, *w.set
	return within(w.start, rise, set) || within(w.end, rise, set) || within(rise, w.start, w.end)
}

// classifyStarGazing applies the star-gazing rules in order; the first match wins.
func classifyStarGazing(rec DailyRecord, p gazePlan) Assessment {
	w := newGazeWindow(rec, p)
	low := w.illuminated <= lowIllumination
	moderate := w.illuminated <= moderateIllumination

	switch {
	case w.risesDuring():
		return Assessment{No, fmt.Sprintf("Moon rises at %s during your star gazing time - not ideal.", w.adjRise.Format("15:04"))}
	case w.absent():
		return Assessment{Yes, reasonGazeAbsent}
	case w.visibleDuring() && low:
		return Assessment{Partial, reasonGazeVisibleLow}
	case w.visibleDuring() && moderate:
		return Assessment{Partial, reasonGazeVisibleMod}
	case w.visibleDuring():
		return Assessment{No, fmt.Sprintf("Moon is visible during your star gazing time with %d%% illumination - too bright for optimal star gazing.", int(math.Round(w.illuminated)))}
	case low:
		return Assessment{Partial, reasonGazeLow}
	case moderate:
		return Assessment{Partial, reasonGazeModerate}
	}
	return Assessment{No, reasonGazeTooBright}
}

// within reports whether t lies in [from, to].
func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
