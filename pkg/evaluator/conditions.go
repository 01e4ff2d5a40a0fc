package evaluator

import (
	"math"
	"strconv"
	"time"

	"github.com/chrissnell/moonhike/pkg/ephemeris"
)

// hikingPlan is HikingConditions after validation.
type hikingPlan struct {
	obs             ephemeris.Observer
	loc             *time.Location
	minIllumination float64
	start           WallClock
	end             WallClock
}

// gazePlan is StarGazingConditions after validation.
type gazePlan struct {
	loc   *time.Location
	start WallClock
	end   WallClock
}

// Validate checks the hiking conditions without evaluating anything.
func (c HikingConditions) Validate() error {
	_, err := c.plan()
	return err
}

func (c HikingConditions) plan() (hikingPlan, error) {
	var p hikingPlan
	var err error

	if p.obs, err = validCoordinates(c.Coordinates); err != nil {
		return p, err
	}
	if p.loc, err = loadLocation(c.Timezone); err != nil {
		return p, err
	}
	if err = validPercent("min_illumination", c.MinIllumination); err != nil {
		return p, err
	}
	p.minIllumination = c.MinIllumination
	if p.start, err = parseField("start_hike_time", c.StartHikeTime); err != nil {
		return p, err
	}
	if p.end, err = parseField("end_hike_time", c.EndHikeTime); err != nil {
		return p, err
	}
	return p, nil
}

// Validate checks the star-gazing conditions. fallbackTZ is used when
// Timezone is empty.
func (c StarGazingConditions) Validate(fallbackTZ string) error {
	_, err := c.plan(fallbackTZ)
	return err
}

func (c StarGazingConditions) plan(fallbackTZ string) (gazePlan, error) {
	var p gazePlan
	var err error

	if _, err = validCoordinates(c.Coordinates); err != nil {
		return p, err
	}
	tz := c.Timezone
	if tz == "" {
		tz = fallbackTZ
	}
	if p.loc, err = loadLocation(tz); err != nil {
		return p, err
	}
	if err = validPercent("max_illumination", c.MaxIllumination); err != nil {
		return p, err
	}

	p.start, p.end = DefaultGazeStart, DefaultGazeEnd
	if c.StartTime != "" {
		if p.start, err = parseField("start_time", c.StartTime); err != nil {
			return p, err
		}
	}
	if c.EndTime != "" {
		if p.end, err = parseField("end_time", c.EndTime); err != nil {
			return p, err
		}
	}
	return p, nil
}

func validCoordinates(c Coordinates) (ephemeris.Observer, error) {
	obs := c.observer()
	if err := obs.Validate(); err != nil {
		return obs, configErr("coordinates", formatCoords(c), ErrInvalidCoordinates)
	}
	return obs, nil
}

func loadLocation(tz string) (*time.Location, error) {
	// time.LoadLocation maps "" to UTC; an evaluation must name its zone.
	if tz == "" {
		return nil, configErr("timezone", tz, ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, configErr("timezone", tz, ErrInvalidTimezone)
	}
	return loc, nil
}

func validPercent(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return configErr(field, formatPercent(v), ErrInvalidThreshold)
	}
	return nil
}

func parseField(field, s string) (WallClock, error) {
	w, err := ParseWallClock(s)
	if err != nil {
		return w, configErr(field, s, ErrInvalidTimeFormat)
	}
	return w, nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCoords(c Coordinates) string {
	return formatPercent(c.Latitude) + "," + formatPercent(c.Longitude)
}
