package evaluator

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chrissnell/moonhike/pkg/ephemeris"
)

func dateUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluateRangeDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"single day", dateUTC(2024, 9, 1), dateUTC(2024, 9, 1), 1},
		{"month", dateUTC(2024, 9, 1), dateUTC(2024, 9, 30), 30},
		{"across spring DST", dateUTC(2024, 3, 8), dateUTC(2024, 3, 12), 5},
		{"across fall DST", dateUTC(2024, 10, 30), dateUTC(2024, 11, 5), 7},
		{"across year end", dateUTC(2024, 12, 30), dateUTC(2025, 1, 2), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := New(newFakeProvider(0.5), Options{})
			results, err := ev.EvaluateRange(context.Background(), Request{
				Start:  tt.start,
				End:    tt.end,
				Hiking: hikingConditions(30),
			})
			if err != nil {
				t.Fatalf("EvaluateRange: %v", err)
			}
			if len(results) != tt.want {
				t.Fatalf("got %d results, expected %d", len(results), tt.want)
			}

			y, m, d := tt.start.Date()
			for i, r := range results {
				want := time.Date(y, m, d+i, 0, 0, 0, 0, losAngeles)
				if !r.Date.Equal(want) {
					t.Errorf("result %d date = %v, expected %v", i, r.Date, want)
				}
				if r.Date.Hour() != 0 || r.Date.Minute() != 0 {
					t.Errorf("result %d is not at local midnight: %v", i, r.Date)
				}
				if i > 0 && !r.Date.After(results[i-1].Date) {
					t.Errorf("result %d not after result %d", i, i-1)
				}
			}
		})
	}
}

func TestEvaluateRangeInverted(t *testing.T) {
	fp := newFakeProvider(0.5)
	results, err := New(fp, Options{}).EvaluateRange(context.Background(), Request{
		Start:  dateUTC(2024, 9, 10),
		End:    dateUTC(2024, 9, 1),
		Hiking: hikingConditions(30),
	})
	if err != nil {
		t.Fatalf("EvaluateRange: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, expected an empty slice", results)
	}
	if fp.calls != 0 {
		t.Errorf("provider called %d times for an empty range", fp.calls)
	}
}

func TestEvaluateRangeValidatesFirst(t *testing.T) {
	tests := []struct {
		name string
		req  func() Request
		opts Options
		want error
	}{
		{
			name: "bad hike time",
			req: func() Request {
				c := hikingConditions(30)
				c.EndHikeTime = "23h"
				return Request{Hiking: c}
			},
			want: ErrInvalidTimeFormat,
		},
		{
			name: "bad timezone",
			req: func() Request {
				c := hikingConditions(30)
				c.Timezone = "Nowhere/Special"
				return Request{Hiking: c}
			},
			want: ErrInvalidTimezone,
		},
		{
			name: "bad gaze time",
			req: func() Request {
				g := gazeConditions("21:00", "2am")
				return Request{Hiking: hikingConditions(30), StarGazing: &g}
			},
			want: ErrInvalidTimeFormat,
		},
		{
			name: "range too large",
			req: func() Request {
				return Request{Hiking: hikingConditions(30)}
			},
			opts: Options{MaxDays: 10},
			want: ErrRangeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := newFakeProvider(0.5)
			req := tt.req()
			req.Start, req.End = dateUTC(2024, 9, 1), dateUTC(2024, 9, 30)

			_, err := New(fp, tt.opts).EvaluateRange(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, expected %v", err, tt.want)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("err = %T, expected *ConfigError", err)
			}
			if fp.calls != 0 {
				t.Errorf("provider called %d times before validation failed", fp.calls)
			}
		})
	}
}

func TestEvaluateRangeStarGazingOptional(t *testing.T) {
	fp := newFakeProvider(0.02)
	ev := New(fp, Options{})
	req := Request{Start: dateUTC(2024, 9, 1), End: dateUTC(2024, 9, 3), Hiking: hikingConditions(30)}

	results, err := ev.EvaluateRange(context.Background(), req)
	if err != nil {
		t.Fatalf("EvaluateRange: %v", err)
	}
	for _, r := range results {
		if r.StarGazing != NotEvaluated {
			t.Errorf("star gazing = %+v, expected not evaluated", r.StarGazing)
		}
	}

	g := gazeConditions("", "")
	req.StarGazing = &g
	results, err = ev.EvaluateRange(context.Background(), req)
	if err != nil {
		t.Fatalf("EvaluateRange: %v", err)
	}
	for _, r := range results {
		// the fake has no moon events, so the moon is absent every night
		if r.StarGazing.Verdict != Yes {
			t.Errorf("star gazing = %+v, expected Yes", r.StarGazing)
		}
		if r.Hiking.Verdict != No {
			t.Errorf("hiking = %+v, expected No", r.Hiking)
		}
	}
}

func TestEvaluateRangeParallelMatchesSequential(t *testing.T) {
	p := ephemeris.NewSunCalc()
	g := gazeConditions("", "")
	req := Request{
		Start:      dateUTC(2024, 9, 1),
		End:        dateUTC(2024, 9, 21),
		Hiking:     hikingConditions(30),
		StarGazing: &g,
	}

	seq, err := New(p, Options{}).EvaluateRange(context.Background(), req)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := New(p, Options{Workers: 4}).EvaluateRange(context.Background(), req)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	again, err := New(p, Options{Workers: 4}).EvaluateRange(context.Background(), req)
	if err != nil {
		t.Fatalf("parallel again: %v", err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel results differ from sequential results")
	}
	if !reflect.DeepEqual(par, again) {
		t.Error("repeated evaluation is not deterministic")
	}
}

func TestEvaluateRangeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newFakeProvider(0.5), Options{Workers: 2}).EvaluateRange(ctx, Request{
		Start:  dateUTC(2024, 9, 1),
		End:    dateUTC(2024, 9, 30),
		Hiking: hikingConditions(30),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}

func TestEvaluateRangeProviderFailure(t *testing.T) {
	boom := errors.New("boom")
	fp := newFakeProvider(0.5)
	fp.moonErr = boom

	_, err := New(fp, Options{Workers: 3}).EvaluateRange(context.Background(), Request{
		Start:  dateUTC(2024, 9, 1),
		End:    dateUTC(2024, 9, 10),
		Hiking: hikingConditions(30),
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, expected the provider error", err)
	}
}

func TestEvaluateRangeProperties(t *testing.T) {
	providers := map[string]ephemeris.Provider{
		"suncalc": ephemeris.NewSunCalc(),
		"meeus":   ephemeris.NewMeeus(),
	}
	g := gazeConditions("", "")

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			results, err := New(p, Options{Workers: 4}).EvaluateRange(context.Background(), Request{
				Start:      dateUTC(2024, 8, 1),
				End:        dateUTC(2024, 9, 29),
				Hiking:     hikingConditions(40),
				StarGazing: &g,
			})
			if err != nil {
				t.Fatalf("EvaluateRange: %v", err)
			}
			if len(results) != 60 {
				t.Fatalf("got %d results, expected 60", len(results))
			}

			for _, r := range results {
				day := r.Date.Format(time.DateOnly)
				if r.MoonIllumination < 0 || r.MoonIllumination > 100 {
					t.Errorf("%s: illumination %.2f out of range", day, r.MoonIllumination)
				}
				if r.Moonrise != nil && r.Moonset != nil && r.Moonset.Before(*r.Moonrise) {
					t.Errorf("%s: moonset %v before moonrise %v", day, r.Moonset, r.Moonrise)
				}
				if r.Zenith != nil {
					if r.Moonrise == nil || r.Moonset == nil {
						t.Errorf("%s: zenith without both rise and set", day)
					} else if !r.Zenith.After(*r.Moonrise) || !r.Zenith.Before(*r.Moonset) {
						t.Errorf("%s: zenith %v outside (%v, %v)", day, r.Zenith, r.Moonrise, r.Moonset)
					}
				}
				if r.Moonrise != nil && r.Moonset != nil && r.Moonset.After(*r.Moonrise) && r.Zenith == nil {
					t.Errorf("%s: expected a zenith between rise and set", day)
				}
				if r.MoonIllumination < 40 && r.Hiking.Verdict != No {
					t.Errorf("%s: hiking %v with %.1f%% illumination", day, r.Hiking.Verdict, r.MoonIllumination)
				}
				if r.Moonrise == nil && r.Hiking.Verdict != No {
					t.Errorf("%s: hiking %v without a moonrise", day, r.Hiking.Verdict)
				}
				if r.Moonrise == nil && r.StarGazing.Verdict != Yes {
					t.Errorf("%s: star gazing %v without a moonrise", day, r.StarGazing.Verdict)
				}
				for _, ts := range []*time.Time{r.Moonrise, r.Moonset, r.Sunset, r.Zenith} {
					if ts != nil && ts.Location().String() != "America/Los_Angeles" {
						t.Errorf("%s: instant %v not in the evaluation timezone", day, ts)
					}
				}
			}
		})
	}
}

func TestFullMoonScenario(t *testing.T) {
	// Full moon on the evening of Sep 17 2024 in California. The UTC day queried
	// for Sep 17 holds the moonrise of the 16th, shortly before sunset.
	ev := New(ephemeris.NewSunCalc(), Options{})
	day := local(2024, 9, 17, 0, 0)

	r, err := ev.EvaluateDay(day, hikingConditions(30), nil)
	if err != nil {
		t.Fatalf("EvaluateDay: %v", err)
	}
	if r.MoonIllumination < 95 {
		t.Fatalf("illumination = %.1f, expected a nearly full moon", r.MoonIllumination)
	}
	if r.Moonrise == nil || r.Moonset == nil {
		t.Fatalf("expected moonrise and moonset, got %v / %v", r.Moonrise, r.Moonset)
	}
	if r.Hiking.Verdict != Yes {
		t.Errorf("hiking = %+v (rise %v, set %v), expected Yes", r.Hiking, r.Moonrise, r.Moonset)
	}
	if r.BestHikingWindow == nil {
		t.Error("expected a best hiking window")
	}

	r, err = ev.EvaluateDay(day, hikingConditions(100), nil)
	if err != nil {
		t.Fatalf("EvaluateDay: %v", err)
	}
	if r.Hiking.Verdict != No || !strings.Contains(r.Hiking.Reason, "below the required 100%") {
		t.Errorf("hiking = %+v, expected No for illumination below 100%%", r.Hiking)
	}
	if r.BestHikingWindow != nil {
		t.Errorf("best window = %+v, expected none for a No night", r.BestHikingWindow)
	}
}

func TestNewMoonScenario(t *testing.T) {
	// New moon on Oct 2 2024; the moon keeps roughly the Sun's hours.
	ev := New(ephemeris.NewSunCalc(), Options{})
	g := gazeConditions("21:00", "02:00")

	r, err := ev.EvaluateDay(local(2024, 10, 2, 0, 0), hikingConditions(30), &g)
	if err != nil {
		t.Fatalf("EvaluateDay: %v", err)
	}
	if r.MoonIllumination > 5 {
		t.Fatalf("illumination = %.1f, expected a nearly new moon", r.MoonIllumination)
	}
	if r.StarGazing.Verdict == No {
		t.Errorf("star gazing = %+v, expected Yes or Partial", r.StarGazing)
	}
	if r.Hiking.Verdict != No {
		t.Errorf("hiking = %+v, expected No", r.Hiking)
	}
}
