// night-report prints a table of moon conditions and hiking and star-gazing
// verdicts for a range of nights.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chrissnell/moonhike/internal/app"
	"github.com/chrissnell/moonhike/internal/log"
	"github.com/chrissnell/moonhike/pkg/config"
	"github.com/chrissnell/moonhike/pkg/evaluator"
)

func main() {
	var (
		cfgFile    = flag.String("config", "", "Optional YAML configuration file for defaults and sites")
		site       = flag.String("site", "", "Named site from the configuration")
		lat        = flag.Float64("lat", 0, "Observer latitude (default: configured location)")
		lon        = flag.Float64("lon", 0, "Observer longitude (default: configured location)")
		tz         = flag.String("tz", "", "IANA timezone (default: configured location)")
		start      = flag.String("start", "", "First night, YYYY-MM-DD (default: today)")
		days       = flag.Int("days", 0, "Number of nights (default: configured range)")
		minIllum   = flag.Float64("min-illumination", 0, "Minimum moon illumination for hiking, percent")
		hikeStart  = flag.String("hike-start", "", "Hike start, HH:mm")
		hikeEnd    = flag.String("hike-end", "", "Hike end, HH:mm")
		gazePreset = flag.String("gaze-preset", "", "Star-gazing window preset: early or late")
		goodOnly   = flag.String("good-only", "", "Only show good nights for: hiking or stargazing")
		provider   = flag.String("provider", "", "Ephemeris provider: suncalc or meeus")
		debug      = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *provider != "" {
		cfg.Ephemeris.Provider = *provider
	}

	loc := cfg.Location
	if *site != "" {
		s, err := config.FindSite(cfg.Sites, *site)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		loc = config.LocationData{Name: s.Name, Latitude: s.Latitude, Longitude: s.Longitude, Timezone: s.Timezone}
		cfg.Hiking.MinIllumination = s.HikingThreshold(cfg.Hiking.MinIllumination)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			loc.Latitude, loc.Name = *lat, ""
		case "lon":
			loc.Longitude, loc.Name = *lon, ""
		}
	})
	if *tz != "" {
		loc.Timezone = *tz
	}

	req, err := buildRequest(cfg, loc, reportFlags{
		start:      *start,
		days:       *days,
		minIllum:   *minIllum,
		hikeStart:  *hikeStart,
		hikeEnd:    *hikeEnd,
		gazePreset: *gazePreset,
	}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var filter evaluator.Activity
	if *goodOnly != "" {
		var ok bool
		if filter, ok = evaluator.ParseActivity(*goodOnly); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown activity %q (use hiking or stargazing)\n", *goodOnly)
			os.Exit(1)
		}
	}

	ev, err := app.NewEvaluator(cfg, log.GetSugaredLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	results, err := ev.EvaluateRange(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	name := loc.Name
	if name == "" {
		name = fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)
	}
	fmt.Printf("Nights at %s (%s)\n\n", name, loc.Timezone)

	summary := evaluator.Summarize(results)
	if filter != "" {
		results = evaluator.FilterGood(results, filter)
	}
	if err := writeReport(os.Stdout, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	writeSummary(os.Stdout, summary)
}

func loadConfig(path string) (*config.ConfigData, error) {
	if path == "" {
		return config.ParseYAML([]byte("{}"))
	}
	return config.NewYAMLProvider(path).LoadConfig()
}

type reportFlags struct {
	start      string
	days       int
	minIllum   float64
	hikeStart  string
	hikeEnd    string
	gazePreset string
}

func buildRequest(cfg *config.ConfigData, loc config.LocationData, f reportFlags, now time.Time) (evaluator.Request, error) {
	var req evaluator.Request

	tzLoc, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return req, fmt.Errorf("unknown timezone %q", loc.Timezone)
	}
	y, m, d := now.In(tzLoc).Date()
	req.Start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if f.start != "" {
		if req.Start, err = time.Parse(time.DateOnly, f.start); err != nil {
			return req, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", f.start)
		}
	}
	days := cfg.Server.DefaultRangeDays
	if f.days > 0 {
		days = f.days
	}
	req.End = req.Start.AddDate(0, 0, days-1)

	coords := evaluator.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}
	req.Hiking = evaluator.HikingConditions{
		Coordinates:     coords,
		Timezone:        loc.Timezone,
		MinIllumination: cfg.Hiking.MinIllumination,
		StartHikeTime:   orDefault(f.hikeStart, cfg.Hiking.StartTime),
		EndHikeTime:     orDefault(f.hikeEnd, cfg.Hiking.EndTime),
	}
	if f.minIllum > 0 {
		req.Hiking.MinIllumination = f.minIllum
	}

	sg := evaluator.StarGazingConditions{
		Coordinates:     coords,
		Timezone:        loc.Timezone,
		MaxIllumination: cfg.StarGazing.MaxIllumination,
		PreferNoMoon:    cfg.StarGazing.PreferNoMoon,
		StartTime:       cfg.StarGazing.StartTime,
		EndTime:         cfg.StarGazing.EndTime,
	}
	if f.gazePreset != "" {
		start, end, ok := evaluator.GazePreset(f.gazePreset)
		if !ok {
			return req, fmt.Errorf("unknown star-gazing preset %q (use early or late)", f.gazePreset)
		}
		sg.StartTime, sg.EndTime = start, end
	}
	req.StarGazing = &sg

	return req, nil
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func writeReport(out io.Writer, results []evaluator.DailyResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tILLUM\tPHASE\tSUNSET\tMOONRISE\tPEAK\tMOONSET\tHIKING\tSTAR GAZING\tBEST HIKE")
	for _, r := range results {
		best := "-"
		if r.BestHikingWindow != nil {
			best = r.BestHikingWindow.Start.Format("15:04") + "-" + r.BestHikingWindow.End.Format("15:04")
		}
		fmt.Fprintf(w, "%s\t%.0f%%\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format("Mon Jan 02"),
			r.MoonIllumination,
			r.PhaseName,
			clock(r.Sunset),
			clock(r.Moonrise),
			clock(r.Zenith),
			clock(r.Moonset),
			strings.ToUpper(r.Hiking.Verdict.String()),
			strings.ToUpper(r.StarGazing.Verdict.String()),
			best,
		)
	}
	return w.Flush()
}

func writeSummary(out io.Writer, s evaluator.Summary) {
	fmt.Fprintf(out, "\n%d nights, illumination %.0f%% to %.0f%% (mean %.0f%%)\n",
		s.Days, s.MinIllumination, s.MaxIllumination, s.MeanIllumination)
	fmt.Fprintf(out, "Hiking:      %d yes, %d partial, %d no\n", s.Hiking.Yes, s.Hiking.Partial, s.Hiking.No)
	fmt.Fprintf(out, "Star gazing: %d yes, %d partial, %d no\n", s.StarGazing.Yes, s.StarGazing.Partial, s.StarGazing.No)
}

func clock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}
