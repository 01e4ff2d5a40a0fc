package evaluator

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Activity selects which verdict a filter or tally looks at.
type Activity string

const (
	Hiking     Activity = "hiking"
	StarGazing Activity = "stargazing"
)

// ParseActivity accepts "hiking" or "stargazing".
func ParseActivity(s string) (Activity, bool) {
	switch Activity(s) {
	case Hiking, StarGazing:
		return Activity(s), true
	}
	return "", false
}

func (r DailyResult) verdict(a Activity) Verdict {
	if a == StarGazing {
		return r.StarGazing.Verdict
	}
	return r.Hiking.Verdict
}

// FilterGood keeps the nights rated Yes or Partial for the activity, preserving order.
func FilterGood(results []DailyResult, a Activity) []DailyResult {
	good := make([]DailyResult, 0, len(results))
	for _, r := range results {
		if r.verdict(a) != No {
			good = append(good, r)
		}
	}
	return good
}

// Tally counts verdicts for one activity.
type Tally struct {
	Yes     int `json:"yes"`
	Partial int `json:"partial"`
	No      int `json:"no"`
}

// Summary describes an evaluated range.
type Summary struct {
	Days               int     `json:"days"`
	Hiking             Tally   `json:"hiking"`
	StarGazing         Tally   `json:"star_gazing"`
	MeanIllumination   float64 `json:"mean_illumination"`
	StdDevIllumination float64 `json:"stddev_illumination"`
	MinIllumination    float64 `json:"min_illumination"`
	MaxIllumination    float64 `json:"max_illumination"`
}

// Summarize tallies verdicts and illumination statistics over results.
func Summarize(results []DailyResult) Summary {
	s := Summary{Days: len(results)}
	if len(results) == 0 {
		return s
	}

	illum := make([]float64, len(results))
	for i, r := range results {
		illum[i] = r.MoonIllumination
		s.Hiking.add(r.Hiking.Verdict)
		s.StarGazing.add(r.StarGazing.Verdict)
	}

	s.MeanIllumination = stat.Mean(illum, nil)
	if len(illum) > 1 {
		s.StdDevIllumination = stat.StdDev(illum, nil)
	}
	s.MinIllumination = floats.Min(illum)
	s.MaxIllumination = floats.Max(illum)
	return s
}

func (t *Tally) add(v Verdict) {
	switch v {
	case Yes:
		t.Yes++
	case Partial:
		t.Partial++
	default:
		t.No++
	}
}
