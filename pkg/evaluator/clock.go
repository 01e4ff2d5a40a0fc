package evaluator

import (
	"fmt"
	"strings"
	"time"
)

// WallClock is a local time of day with minute resolution.
type WallClock struct {
	Hour   int
	Minute int
}

// ParseWallClock parses a 24-hour "HH:mm" string. A single-digit hour is accepted.
func ParseWallClock(s string) (WallClock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return WallClock{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return WallClock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// On places the wall-clock time on the calendar day of day as seen in loc.
func (w WallClock) On(day time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), w.Hour, w.Minute, 0, 0, loc)
}

var (
	DefaultGazeStart = WallClock{Hour: 21}
	DefaultGazeEnd   = WallClock{Hour: 2}
)

var gazePresets = map[string][2]WallClock{
	"early": {{Hour: 20}, {Hour: 23}},
	"late":  {{Hour: 23}, {Hour: 2}},
}

// GazePreset returns the "HH:mm" start and end of a named star-gazing window
// ("early" or "late").
func GazePreset(name string) (start, end string, ok bool) {
	p, ok := gazePresets[strings.ToLower(name)]
	if !ok {
		return "", "", false
	}
	return p[0].String(), p[1].String(), true
}

// dayFrame ties a local calendar day to the UTC instant the provider is queried
// with. Every component goes through it so that query and localization rules
// stay in one place.
type dayFrame struct {
	day   time.Time // local midnight
	query time.Time // local midnight in UTC
	loc   *time.Location
}

func newDayFrame(day time.Time, loc *time.Location) dayFrame {
	d := day.In(loc)
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return dayFrame{day: midnight, query: midnight.UTC(), loc: loc}
}

// nextQuery is an instant inside the UTC day after the query day.
func (f dayFrame) nextQuery() time.Time {
	return f.query.Add(24 * time.Hour)
}

func (f dayFrame) localize(t time.Time) *time.Time {
	lt := t.In(f.loc)
	return &lt
}
