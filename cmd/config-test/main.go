// config-test loads the same configuration from YAML and SQLite and reports
// any section that differs.
package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/chrissnell/moonhike/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlConfig, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	diffs := compare(yamlConfig, sqliteConfig)
	if len(diffs) == 0 {
		fmt.Println("✓ Configurations match")
		return
	}
	for _, d := range diffs {
		fmt.Printf("✗ %s\n", d)
	}
	os.Exit(1)
}

// compare returns one line per differing section. Site order is ignored.
func compare(a, b *config.ConfigData) []string {
	var diffs []string
	sections := []struct {
		name string
		a, b any
	}{
		{"server", a.Server, b.Server},
		{"location", a.Location, b.Location},
		{"hiking", a.Hiking, b.Hiking},
		{"stargazing", a.StarGazing, b.StarGazing},
		{"ephemeris", a.Ephemeris, b.Ephemeris},
	}
	for _, s := range sections {
		if !reflect.DeepEqual(s.a, s.b) {
			diffs = append(diffs, fmt.Sprintf("%s: YAML %+v, SQLite %+v", s.name, s.a, s.b))
		}
	}

	if !reflect.DeepEqual(sortedSites(a.Sites), sortedSites(b.Sites)) {
		diffs = append(diffs, fmt.Sprintf("sites: YAML %d, SQLite %d", len(a.Sites), len(b.Sites)))
	}
	return diffs
}

func sortedSites(sites []config.SiteData) []config.SiteData {
	out := append([]config.SiteData(nil), sites...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
