package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the YAML file and applies defaults
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// ParseYAML decodes a YAML document into ConfigData with defaults applied
func ParseYAML(data []byte) (*ConfigData, error) {
	var yamlConfig ConfigYAML
	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := yamlConfig.toData()
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GetSites returns the configured observing sites
func (y *YAMLProvider) GetSites() ([]SiteData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Sites, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// ConfigYAML mirrors ConfigData with the kebab-case keys used in YAML files
type ConfigYAML struct {
	Server     ServerYAML     `yaml:"server,omitempty"`
	Location   LocationYAML   `yaml:"location,omitempty"`
	Hiking     HikingYAML     `yaml:"hiking,omitempty"`
	StarGazing StarGazingYAML `yaml:"stargazing,omitempty"`
	Ephemeris  EphemerisYAML  `yaml:"ephemeris,omitempty"`
	Sites      []SiteYAML     `yaml:"sites,omitempty"`
}

type ServerYAML struct {
	Cert             string `yaml:"cert,omitempty"`
	Key              string `yaml:"key,omitempty"`
	Port             int    `yaml:"port,omitempty"`
	ListenAddr       string `yaml:"listen-addr,omitempty"`
	MaxRangeDays     int    `yaml:"max-range-days,omitempty"`
	DefaultRangeDays int    `yaml:"default-range-days,omitempty"`
	EnableCORS       bool   `yaml:"enable-cors,omitempty"`
}

type LocationYAML struct {
	Name      string  `yaml:"name,omitempty"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

type HikingYAML struct {
	MinIllumination *float64 `yaml:"min-illumination,omitempty"`
	StartTime       string   `yaml:"start-time,omitempty"`
	EndTime         string   `yaml:"end-time,omitempty"`
}

type StarGazingYAML struct {
	MaxIllumination *float64 `yaml:"max-illumination,omitempty"`
	PreferNoMoon    bool     `yaml:"prefer-no-moon,omitempty"`
	StartTime       string   `yaml:"start-time,omitempty"`
	EndTime         string   `yaml:"end-time,omitempty"`
}

type EphemerisYAML struct {
	Provider          string `yaml:"provider,omitempty"`
	ZenithStepMinutes int    `yaml:"zenith-step-minutes,omitempty"`
	Workers           int    `yaml:"workers,omitempty"`
}

type SiteYAML struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description,omitempty"`
	Latitude        float64  `yaml:"latitude"`
	Longitude       float64  `yaml:"longitude"`
	Timezone        string   `yaml:"timezone,omitempty"`
	MinIllumination *float64 `yaml:"min-illumination,omitempty"`
}

func (c ConfigYAML) toData() *ConfigData {
	config := &ConfigData{
		Server: ServerData{
			Cert:             c.Server.Cert,
			Key:              c.Server.Key,
			Port:             c.Server.Port,
			ListenAddr:       c.Server.ListenAddr,
			MaxRangeDays:     c.Server.MaxRangeDays,
			DefaultRangeDays: c.Server.DefaultRangeDays,
			EnableCORS:       c.Server.EnableCORS,
		},
		Location: LocationData{
			Name:      c.Location.Name,
			Latitude:  c.Location.Latitude,
			Longitude: c.Location.Longitude,
			Timezone:  c.Location.Timezone,
		},
		Hiking: HikingData{
			MinIllumination: floatOr(c.Hiking.MinIllumination, DefaultHiking.MinIllumination),
			StartTime:       c.Hiking.StartTime,
			EndTime:         c.Hiking.EndTime,
		},
		StarGazing: StarGazingData{
			MaxIllumination: floatOr(c.StarGazing.MaxIllumination, DefaultStarGazing.MaxIllumination),
			PreferNoMoon:    c.StarGazing.PreferNoMoon,
			StartTime:       c.StarGazing.StartTime,
			EndTime:         c.StarGazing.EndTime,
		},
		Ephemeris: EphemerisData{
			Provider:          c.Ephemeris.Provider,
			ZenithStepMinutes: c.Ephemeris.ZenithStepMinutes,
			Workers:           c.Ephemeris.Workers,
		},
		Sites: make([]SiteData, len(c.Sites)),
	}

	for i, site := range c.Sites {
		config.Sites[i] = SiteData{
			Name:            site.Name,
			Description:     site.Description,
			Latitude:        site.Latitude,
			Longitude:       site.Longitude,
			Timezone:        site.Timezone,
			MinIllumination: site.MinIllumination,
		}
	}
	return config
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
