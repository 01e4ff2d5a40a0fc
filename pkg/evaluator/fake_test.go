package evaluator

import (
	"sync"
	"time"

	"github.com/chrissnell/moonhike/pkg/ephemeris"
)

// fakeProvider serves canned answers keyed by the UTC date of the query instant.
type fakeProvider struct {
	mu sync.Mutex

	illumination float64
	moon         map[string]ephemeris.Events
	sun          map[string]ephemeris.Events
	altitude     func(t time.Time) float64

	moonErr     error
	altitudeErr error

	queries []time.Time
	calls   int
}

func newFakeProvider(illumination float64) *fakeProvider {
	return &fakeProvider{
		illumination: illumination,
		moon:         map[string]ephemeris.Events{},
		sun:          map[string]ephemeris.Events{},
	}
}

func key(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func (f *fakeProvider) record(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.queries = append(f.queries, t)
}

func (f *fakeProvider) MoonIllumination(t time.Time) (float64, error) {
	f.record(t)
	return f.illumination, nil
}

func (f *fakeProvider) MoonTimes(t time.Time, obs ephemeris.Observer) (ephemeris.Events, error) {
	f.record(t)
	if f.moonErr != nil {
		return ephemeris.Events{}, f.moonErr
	}
	return f.moon[key(t)], nil
}

func (f *fakeProvider) SunTimes(t time.Time, obs ephemeris.Observer) (ephemeris.Events, error) {
	f.record(t)
	return f.sun[key(t)], nil
}

func (f *fakeProvider) MoonAltitude(t time.Time, obs ephemeris.Observer) (float64, error) {
	if f.altitudeErr != nil {
		return 0, f.altitudeErr
	}
	if f.altitude == nil {
		return 10, nil
	}
	return f.altitude(t), nil
}

func (f *fakeProvider) setMoon(day string, rise, set *time.Time) {
	var ev ephemeris.Events
	if rise != nil {
		ev.Rise, ev.HasRise = rise.UTC(), true
	}
	if set != nil {
		ev.Set, ev.HasSet = set.UTC(), true
	}
	f.moon[day] = ev
}

// peakAt is a tent-shaped altitude curve topping out at 60 degrees.
func peakAt(peak time.Time) func(time.Time) float64 {
	return func(t time.Time) float64 {
		d := t.Sub(peak).Hours()
		if d < 0 {
			d = -d
		}
		return 60 - 10*d
	}
}

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time {
	return &t
}

var (
	losAngeles, _ = time.LoadLocation("America/Los_Angeles")
	escondido     = Coordinates{Latitude: 33.0893, Longitude: -117.1153}
)

// local returns a wall-clock instant in Los Angeles.
func local(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, losAngeles)
}
