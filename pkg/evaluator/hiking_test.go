package evaluator

import (
	"errors"
	"testing"
	"time"
)

func hikingConditions(minIllum float64) HikingConditions {
	return HikingConditions{
		Coordinates:     escondido,
		Timezone:        "America/Los_Angeles",
		MinIllumination: minIllum,
		StartHikeTime:   "20:00",
		EndHikeTime:     "23:00",
	}
}

func TestClassifyHiking(t *testing.T) {
	day := local(2024, 9, 15, 0, 0)

	tests := []struct {
		name         string
		rise, set    *time.Time
		illumination float64
		minIllum     float64
		want         Verdict
		reason       string
	}{
		{
			name:         "up for the whole hike",
			rise:         ptr(local(2024, 9, 15, 18, 0)),
			set:          ptr(local(2024, 9, 16, 5, 0)),
			illumination: 90,
			minIllum:     30,
			want:         Yes,
			reason:       "The Moon meets visibility and illumination requirements.",
		},
		{
			name:         "rises mid hike",
			rise:         ptr(local(2024, 9, 15, 21, 0)),
			set:          ptr(local(2024, 9, 16, 8, 0)),
			illumination: 90,
			minIllum:     30,
			want:         Partial,
			reason:       "The Moon rises during your hike so maybe a good night.",
		},
		{
			name:         "rises exactly at hike start",
			rise:         ptr(local(2024, 9, 15, 20, 0)),
			set:          ptr(local(2024, 9, 16, 6, 0)),
			illumination: 90,
			minIllum:     30,
			want:         Yes,
			reason:       "The Moon meets visibility and illumination requirements.",
		},
		{
			name:         "rises at hike end",
			rise:         ptr(local(2024, 9, 15, 23, 0)),
			set:          ptr(local(2024, 9, 16, 10, 0)),
			illumination: 90,
			minIllum:     30,
			want:         Partial,
			reason:       "The Moon rises during your hike so maybe a good night.",
		},
		{
			name:         "sets before hike",
			rise:         ptr(local(2024, 9, 15, 10, 0)),
			set:          ptr(local(2024, 9, 15, 19, 0)),
			illumination: 90,
			minIllum:     30,
			want:         No,
			reason:       "The Moon is not visible during the planned hike time.",
		},
		{
			name:         "sets mid hike",
			rise:         ptr(local(2024, 9, 15, 18, 0)),
			set:          ptr(local(2024, 9, 15, 22, 0)),
			illumination: 90,
			minIllum:     30,
			want:         No,
			reason:       "The Moon is not visible during the planned hike time.",
		},
		{
			name:         "no moonrise",
			set:          ptr(local(2024, 9, 15, 12, 0)),
			illumination: 90,
			minIllum:     30,
			want:         No,
			reason:       "The Moon is not visible during the planned hike time.",
		},
		{
			name:         "no moonset",
			rise:         ptr(local(2024, 9, 15, 18, 0)),
			illumination: 90,
			minIllum:     30,
			want:         No,
			reason:       "The Moon is not visible during the planned hike time.",
		},
		{
			name:         "too dim despite full visibility",
			rise:         ptr(local(2024, 9, 15, 18, 0)),
			set:          ptr(local(2024, 9, 16, 5, 0)),
			illumination: 20,
			minIllum:     30,
			want:         No,
			reason:       "The Moon's illumination is below the required 30%.",
		},
		{
			name:         "too dim downgrades partial",
			rise:         ptr(local(2024, 9, 15, 21, 0)),
			set:          ptr(local(2024, 9, 16, 8, 0)),
			illumination: 29.9,
			minIllum:     30,
			want:         No,
			reason:       "The Moon's illumination is below the required 30%.",
		},
		{
			name:         "illumination equal to minimum passes",
			rise:         ptr(local(2024, 9, 15, 18, 0)),
			set:          ptr(local(2024, 9, 16, 5, 0)),
			illumination: 30,
			minIllum:     30,
			want:         Yes,
			reason:       "The Moon meets visibility and illumination requirements.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := DailyRecord{Date: day, Moonrise: tt.rise, Moonset: tt.set, MoonIllumination: tt.illumination}
			got, err := ClassifyHiking(rec, hikingConditions(tt.minIllum))
			if err != nil {
				t.Fatalf("ClassifyHiking: %v", err)
			}
			if got.Verdict != tt.want {
				t.Errorf("verdict = %v, expected %v", got.Verdict, tt.want)
			}
			if got.Reason != tt.reason {
				t.Errorf("reason = %q, expected %q", got.Reason, tt.reason)
			}
		})
	}
}

func TestClassifyHikingUsesMoonriseDate(t *testing.T) {
	// The record is for the 15th but the moon rose on the evening of the 14th;
	// the hike window follows the moonrise date.
	rec := DailyRecord{
		Date:             local(2024, 9, 15, 0, 0),
		Moonrise:         ptr(local(2024, 9, 14, 19, 0)),
		Moonset:          ptr(local(2024, 9, 15, 6, 0)),
		MoonIllumination: 80,
	}
	got, err := ClassifyHiking(rec, hikingConditions(10))
	if err != nil {
		t.Fatalf("ClassifyHiking: %v", err)
	}
	if got.Verdict != Yes {
		t.Errorf("verdict = %v, expected Yes", got.Verdict)
	}
}

func TestClassifyHikingWindowDoesNotRollOver(t *testing.T) {
	// 22:00-01:00 stays on one calendar day: the end lands at 01:00 of the
	// moonrise date, before the start.
	c := hikingConditions(0)
	c.StartHikeTime, c.EndHikeTime = "22:00", "01:00"
	rec := DailyRecord{
		Date:             local(2024, 9, 15, 0, 0),
		Moonrise:         ptr(local(2024, 9, 15, 18, 0)),
		Moonset:          ptr(local(2024, 9, 16, 6, 0)),
		MoonIllumination: 90,
	}
	got, err := ClassifyHiking(rec, c)
	if err != nil {
		t.Fatalf("ClassifyHiking: %v", err)
	}
	// rise <= 22:00 and set >= 01:00 the same day
	if got.Verdict != Yes {
		t.Errorf("verdict = %v, expected Yes", got.Verdict)
	}

	rec.Moonrise = ptr(local(2024, 9, 15, 23, 30))
	got, _ = ClassifyHiking(rec, c)
	if got.Verdict != No {
		t.Errorf("verdict = %v, expected No for a moonrise after the same-day window", got.Verdict)
	}
}

func TestClassifyHikingInvalidConditions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HikingConditions)
		want   error
		field  string
	}{
		{"bad start", func(c *HikingConditions) { c.StartHikeTime = "8pm" }, ErrInvalidTimeFormat, "start_hike_time"},
		{"bad end", func(c *HikingConditions) { c.EndHikeTime = "24:00" }, ErrInvalidTimeFormat, "end_hike_time"},
		{"bad timezone", func(c *HikingConditions) { c.Timezone = "Mars/Olympus_Mons" }, ErrInvalidTimezone, "timezone"},
		{"empty timezone", func(c *HikingConditions) { c.Timezone = "" }, ErrInvalidTimezone, "timezone"},
		{"bad latitude", func(c *HikingConditions) { c.Latitude = 91 }, ErrInvalidCoordinates, "coordinates"},
		{"bad threshold", func(c *HikingConditions) { c.MinIllumination = 101 }, ErrInvalidThreshold, "min_illumination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := hikingConditions(30)
			tt.mutate(&c)
			_, err := ClassifyHiking(DailyRecord{Date: local(2024, 9, 15, 0, 0)}, c)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, expected %v", err, tt.want)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("err = %#v, expected a ConfigError for %q", err, tt.field)
			}
		})
	}
}
