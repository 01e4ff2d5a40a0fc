// moon-phase prints the Moon's phase at an instant and, for a location, the
// moonrise, moonset and sunset of that local day.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/moonhike/pkg/config"
	"github.com/chrissnell/moonhike/pkg/ephemeris"
	"github.com/chrissnell/moonhike/pkg/evaluator"
	"github.com/chrissnell/moonhike/pkg/lunar"
	"github.com/chrissnell/moonhike/pkg/solar"
)

func main() {
	timeStr := flag.String("time", "", "Time to calculate phase for (RFC3339 format, e.g., 2024-01-15T12:00:00Z); default now")
	lat := flag.Float64("lat", config.DefaultLocation.Latitude, "Observer latitude")
	lon := flag.Float64("lon", config.DefaultLocation.Longitude, "Observer longitude")
	tz := flag.String("tz", config.DefaultLocation.Timezone, "IANA timezone of the observer")
	provider := flag.String("provider", config.DefaultProvider, "Ephemeris provider: suncalc or meeus")
	flag.Parse()

	t := time.Now().UTC()
	if *timeStr != "" {
		var err error
		t, err = time.Parse(time.RFC3339, *timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown timezone %q\n", *tz)
		os.Exit(1)
	}

	phase := lunar.Calculate(t)

	fmt.Printf("Moon Phase for %s\n", t.In(loc).Format(time.RFC3339))
	fmt.Printf("  Phase:        %.1f%% (%.4f)\n", phase.Phase*100, phase.Phase)
	fmt.Printf("  Phase Name:   %s\n", phase.PhaseName)
	fmt.Printf("  Illumination: %.1f%%\n", phase.Illumination*100)
	fmt.Printf("  Age:          %.1f days\n", phase.AgeDays)
	fmt.Printf("  Elongation:   %.1f°\n", phase.Elongation)
	if phase.IsWaxing {
		fmt.Printf("  Direction:    Waxing\n")
	} else {
		fmt.Printf("  Direction:    Waning\n")
	}
	fmt.Printf("  Altitude:     %.1f° at %.4f, %.4f\n", lunar.Altitude(t, *lat, *lon), *lat, *lon)

	p, err := ephemeris.New(*provider)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ev := evaluator.New(p, evaluator.Options{})
	res, err := ev.EvaluateDay(t.In(loc), evaluator.HikingConditions{
		Coordinates:     evaluator.Coordinates{Latitude: *lat, Longitude: *lon},
		Timezone:        *tz,
		MinIllumination: config.DefaultHiking.MinIllumination,
		StartHikeTime:   config.DefaultHiking.StartTime,
		EndHikeTime:     config.DefaultHiking.EndTime,
	}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nEvents for %s (%s)\n", res.Date.Format("Mon Jan 2, 2006"), *tz)
	y, m, d := res.Date.Date()
	day := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	if rise, set, ok := solar.SunriseSunset(day, *lat, *lon); ok {
		fmt.Printf("  Sunrise:      %s\n", solar.FormatSunTime(rise, loc))
		fmt.Printf("  Sunset:       %s\n", solar.FormatSunTime(set, loc))
		fmt.Printf("  Day length:   %s\n", solar.DayLength(day, *lat, *lon).Round(time.Minute))
	}
	for _, e := range res.Events() {
		fmt.Printf("  %-13s %s\n", e.Kind+":", e.Time.Format("15:04 MST"))
	}
}
