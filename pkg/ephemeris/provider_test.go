package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"
)

var escondido = Observer{Latitude: 33.0893, Longitude: -117.1153}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "suncalc", "meeus"} {
		if _, err := New(name); err != nil {
			t.Errorf("New(%q) returned error: %v", name, err)
		}
	}
	if _, err := New("jpl"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestObserverValidate(t *testing.T) {
	tests := []struct {
		name    string
		obs     Observer
		wantErr bool
	}{
		{"escondido", escondido, false},
		{"north pole", Observer{Latitude: 90, Longitude: 0}, false},
		{"latitude too large", Observer{Latitude: 91, Longitude: 0}, true},
		{"longitude too small", Observer{Latitude: 0, Longitude: -181}, true},
		{"nan latitude", Observer{Latitude: math.NaN(), Longitude: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProvidersIllumination(t *testing.T) {
	providers := map[string]Provider{"suncalc": NewSunCalc(), "meeus": NewMeeus()}

	full := time.Date(2023, 2, 5, 18, 29, 0, 0, time.UTC)
	newMoon := time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC)

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			f, err := p.MoonIllumination(full)
			if err != nil {
				t.Fatalf("MoonIllumination: %v", err)
			}
			if f < 0.95 {
				t.Errorf("full moon illumination = %.3f, expected >= 0.95", f)
			}

			n, err := p.MoonIllumination(newMoon)
			if err != nil {
				t.Fatalf("MoonIllumination: %v", err)
			}
			if n > 0.05 {
				t.Errorf("new moon illumination = %.3f, expected <= 0.05", n)
			}
		})
	}
}

func TestProvidersMoonTimesWithinUTCDay(t *testing.T) {
	providers := map[string]Provider{"suncalc": NewSunCalc(), "meeus": NewMeeus()}
	start := time.Date(2024, 9, 1, 7, 0, 0, 0, time.UTC)

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			events := 0
			for i := 0; i < 30; i++ {
				q := start.AddDate(0, 0, i)
				day := utcDay(q)

				ev, err := p.MoonTimes(q, escondido)
				if err != nil {
					t.Fatalf("MoonTimes(%v): %v", q, err)
				}
				for _, e := range []struct {
					has bool
					at  time.Time
				}{{ev.HasRise, ev.Rise}, {ev.HasSet, ev.Set}} {
					if !e.has {
						continue
					}
					events++
					if e.at.Before(day) || e.at.After(day.Add(24*time.Hour)) {
						t.Errorf("event %v outside UTC day %v", e.at, day)
					}
				}
			}
			// Roughly 29 rises and 29 sets in 30 days
			if events < 50 {
				t.Errorf("found %d rise/set events in 30 days, expected at least 50", events)
			}
		})
	}
}

func TestMeeusRiseAtHorizon(t *testing.T) {
	p := NewMeeus()
	q := time.Date(2024, 9, 10, 7, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		ev, err := p.MoonTimes(q.AddDate(0, 0, i), escondido)
		if err != nil {
			t.Fatalf("MoonTimes: %v", err)
		}
		if !ev.HasRise {
			continue
		}
		alt, err := p.MoonAltitude(ev.Rise, escondido)
		if err != nil {
			t.Fatalf("MoonAltitude: %v", err)
		}
		if math.Abs(alt-moonHorizonDeg) > 0.2 {
			t.Errorf("altitude at rise %v = %.3f°, expected ~%.3f°", ev.Rise, alt, moonHorizonDeg)
		}
	}
}

func TestProvidersAgreeOnMoonrise(t *testing.T) {
	sc, mm := NewSunCalc(), NewMeeus()
	q := time.Date(2024, 10, 1, 7, 0, 0, 0, time.UTC)

	compared := 0
	for i := 0; i < 20; i++ {
		day := q.AddDate(0, 0, i)
		a, err := sc.MoonTimes(day, escondido)
		if err != nil {
			t.Fatal(err)
		}
		b, err := mm.MoonTimes(day, escondido)
		if err != nil {
			t.Fatal(err)
		}
		if !a.HasRise || !b.HasRise {
			continue
		}
		// Skip events too close to the UTC day edge where one model may spill over
		edge := utcDay(day)
		if a.Rise.Sub(edge) < time.Hour || edge.Add(24*time.Hour).Sub(a.Rise) < time.Hour {
			continue
		}
		compared++
		if diff := a.Rise.Sub(b.Rise); math.Abs(diff.Minutes()) > 20 {
			t.Errorf("%s: suncalc rise %v, meeus rise %v differ by %v", day.Format("2006-01-02"), a.Rise, b.Rise, diff)
		}
	}
	if compared < 5 {
		t.Errorf("only %d days compared, expected at least 5", compared)
	}
}

func TestMeeusRejectsInvalidObserver(t *testing.T) {
	p := NewMeeus()
	if _, err := p.MoonTimes(time.Now(), Observer{Latitude: 120}); err == nil {
		t.Error("expected error for invalid observer")
	}
	if _, err := p.MoonAltitude(time.Now(), Observer{Longitude: 200}); err == nil {
		t.Error("expected error for invalid observer")
	}
	if errors.Is(Observer{Latitude: 120}.Validate(), ErrNoData) {
		t.Error("invalid observer must not be reported as missing data")
	}
}

func TestSunTimes(t *testing.T) {
	providers := map[string]Provider{"suncalc": NewSunCalc(), "meeus": NewMeeus()}
	// Local midnight PDT on Sep 1 2024
	q := time.Date(2024, 9, 1, 7, 0, 0, 0, time.UTC)
	loc := time.FixedZone("PDT", -7*3600)

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			ev, err := p.SunTimes(q, escondido)
			if err != nil {
				t.Fatalf("SunTimes: %v", err)
			}
			if !ev.HasSet {
				t.Fatal("expected a sunset")
			}
			// Sunset in Escondido on Sep 1 is around 19:10 PDT
			local := ev.Set.In(loc)
			if local.Day() != 1 || local.Hour() < 18 || local.Hour() > 20 {
				t.Errorf("sunset = %v, expected the evening of Sep 1", local)
			}
		})
	}
}
