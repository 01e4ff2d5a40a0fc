package evaluator

import "fmt"

const (
	reasonHikePartial    = "The Moon rises during your hike so maybe a good night."
	reasonHikeNotVisible = "The Moon is not visible during the planned hike time."
	reasonHikeGood       = "The Moon meets visibility and illumination requirements."
)

// ClassifyHiking rates a night for hiking by moonlight.
func ClassifyHiking(rec DailyRecord, c HikingConditions) (Assessment, error) {
	p, err := c.plan()
	if err != nil {
		return Assessment{}, err
	}
	return classifyHiking(rec, p), nil
}

// classifyHiking places the hike window on the moonrise date (or the record
// date without a moonrise). The window does not roll over midnight.
func classifyHiking(rec DailyRecord, p hikingPlan) Assessment {
	anchor := rec.Date
	if rec.Moonrise != nil {
		anchor = *rec.Moonrise
	}
	start := p.start.On(anchor, p.loc)
	end := p.end.On(anchor, p.loc)

	var upForWholeHike, risesDuringHike bool
	if rise := rec.Moonrise; rise != nil {
		upForWholeHike = !rise.After(start) && rec.Moonset != nil && !rec.Moonset.Before(end)
		risesDuringHike = !rise.Before(start) && !rise.After(end)
	}

	var a Assessment
	switch {
	case risesDuringHike && !upForWholeHike:
		a = Assessment{Verdict: Partial, Reason: reasonHikePartial}
	case !upForWholeHike:
		a = Assessment{Verdict: No, Reason: reasonHikeNotVisible}
	default:
		a = Assessment{Verdict: Yes, Reason: reasonHikeGood}
	}

	if rec.MoonIllumination < p.minIllumination {
		a = Assessment{
			Verdict: No,
			Reason:  fmt.Sprintf("The Moon's illumination is below the required %s%%.", formatPercent(p.minIllumination)),
		}
	}
	return a
}
