// Package config loads moonhike configuration from YAML files or SQLite databases.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSiteNotFound is returned when a named site is not configured.
var ErrSiteNotFound = errors.New("site not found")

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Named observing sites
	GetSites() ([]SiteData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server     ServerData     `json:"server"`
	Location   LocationData   `json:"location"`
	Hiking     HikingData     `json:"hiking"`
	StarGazing StarGazingData `json:"stargazing"`
	Ephemeris  EphemerisData  `json:"ephemeris"`
	Sites      []SiteData     `json:"sites,omitempty"`
}

// ServerData configures the REST server
type ServerData struct {
	Cert             string `json:"cert,omitempty"`
	Key              string `json:"key,omitempty"`
	Port             int    `json:"port,omitempty"`
	ListenAddr       string `json:"listen_addr,omitempty"`
	MaxRangeDays     int    `json:"max_range_days,omitempty"`
	DefaultRangeDays int    `json:"default_range_days,omitempty"`
	EnableCORS       bool   `json:"enable_cors,omitempty"`
}

// LocationData is the location used when a request names none
type LocationData struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// HikingData holds the default night hiking conditions
type HikingData struct {
	MinIllumination float64 `json:"min_illumination"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
}

// StarGazingData holds the default star-gazing conditions
type StarGazingData struct {
	MaxIllumination float64 `json:"max_illumination"`
	PreferNoMoon    bool    `json:"prefer_no_moon"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
}

// EphemerisData selects and tunes the astronomical provider
type EphemerisData struct {
	Provider          string `json:"provider,omitempty"`
	ZenithStepMinutes int    `json:"zenith_step_minutes,omitempty"`
	Workers           int    `json:"workers,omitempty"`
}

// SiteData is a named observing location. A nil MinIllumination inherits the
// hiking default; zero is a real threshold.
type SiteData struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Timezone        string   `json:"timezone"`
	MinIllumination *float64 `json:"min_illumination,omitempty"`
}

// HikingThreshold returns the site's minimum illumination, or fallback when
// the site does not set one.
func (s SiteData) HikingThreshold(fallback float64) float64 {
	if s.MinIllumination != nil {
		return *s.MinIllumination
	}
	return fallback
}

// Defaults
const (
	DefaultPort              = 8080
	DefaultListenAddr        = "0.0.0.0"
	DefaultMaxRangeDays      = 366
	DefaultRangeDays         = 30
	DefaultProvider          = "suncalc"
	DefaultZenithStepMinutes = 2
	DefaultWorkers           = 4
)

// DefaultLocation is Escondido, California.
var DefaultLocation = LocationData{
	Name:      "Escondido, CA",
	Latitude:  33.0893,
	Longitude: -117.1153,
	Timezone:  "America/Los_Angeles",
}

var (
	DefaultHiking     = HikingData{MinIllumination: 80, StartTime: "20:00", EndTime: "23:00"}
	DefaultStarGazing = StarGazingData{MaxIllumination: 20, PreferNoMoon: true, StartTime: "21:00", EndTime: "02:00"}
)

// ApplyDefaults fills unset fields with their defaults. Illumination
// thresholds are left alone since zero is a valid setting; the providers fill
// them in when the source omits them.
func (c *ConfigData) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.MaxRangeDays == 0 {
		c.Server.MaxRangeDays = DefaultMaxRangeDays
	}
	if c.Server.DefaultRangeDays == 0 {
		c.Server.DefaultRangeDays = DefaultRangeDays
	}

	// The location is only usable as a whole
	if c.Location.Timezone == "" && c.Location.Latitude == 0 && c.Location.Longitude == 0 {
		c.Location = DefaultLocation
	}
	if c.Location.Timezone == "" {
		c.Location.Timezone = DefaultLocation.Timezone
	}

	if c.Hiking.StartTime == "" {
		c.Hiking.StartTime = DefaultHiking.StartTime
	}
	if c.Hiking.EndTime == "" {
		c.Hiking.EndTime = DefaultHiking.EndTime
	}

	if c.StarGazing.StartTime == "" {
		c.StarGazing.StartTime = DefaultStarGazing.StartTime
	}
	if c.StarGazing.EndTime == "" {
		c.StarGazing.EndTime = DefaultStarGazing.EndTime
	}

	if c.Ephemeris.Provider == "" {
		c.Ephemeris.Provider = DefaultProvider
	}
	if c.Ephemeris.ZenithStepMinutes == 0 {
		c.Ephemeris.ZenithStepMinutes = DefaultZenithStepMinutes
	}
	if c.Ephemeris.Workers == 0 {
		c.Ephemeris.Workers = DefaultWorkers
	}

	for i := range c.Sites {
		if c.Sites[i].Timezone == "" {
			c.Sites[i].Timezone = c.Location.Timezone
		}
	}
}

// Validate checks the parts of the configuration that cannot be defaulted
func (c *ConfigData) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if (c.Server.Cert == "") != (c.Server.Key == "") {
		return fmt.Errorf("server cert and key must be set together")
	}
	switch c.Ephemeris.Provider {
	case "", "suncalc", "meeus":
	default:
		return fmt.Errorf("unknown ephemeris provider %q", c.Ephemeris.Provider)
	}

	seen := make(map[string]bool)
	for _, s := range c.Sites {
		if s.Name == "" {
			return fmt.Errorf("site without a name")
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			return fmt.Errorf("duplicate site %q", s.Name)
		}
		seen[key] = true
	}
	return nil
}

// FindSite looks a site up by name, ignoring case
func FindSite(sites []SiteData, name string) (SiteData, error) {
	for _, s := range sites {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return SiteData{}, fmt.Errorf("%w: %s", ErrSiteNotFound, name)
}
