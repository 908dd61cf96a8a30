// Package config provides the YAML configuration model and load/save
// behavior, including first-run config creation.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// CoordinatesConfig pins the location to a fixed position, bypassing
// geolocation entirely.
type CoordinatesConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// GeolocationConfig controls the IP-geolocation source used when no fixed
// coordinates are set.
type GeolocationConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone used for "today" and display. Empty
	// means the device clock's zone.
	Timezone string `yaml:"timezone"`

	// Method names the calculation preset (see prayer.MethodNames).
	Method string `yaml:"method"`

	// Afternoon selects the asr shadow convention: "standard" or "hanafi".
	Afternoon string `yaml:"afternoon"`

	// Coordinates, if non-nil, fixes the location.
	Coordinates *CoordinatesConfig `yaml:"coordinates,omitempty"`

	Geolocation GeolocationConfig `yaml:"geolocation"`

	// CacheDir overrides the cache directory. Empty means ~/.salat/cache.
	CacheDir string `yaml:"cache_dir"`

	// RefreshCron is the cron schedule the watch command re-resolves on.
	RefreshCron string `yaml:"refresh"`

	// Adjustments shifts individual events by whole minutes, keyed by
	// event name (fajr, sunrise, dhuhr, asr, maghrib, isha, midnight).
	Adjustments map[string]int `yaml:"adjustments,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:  "",
		Method:    "NorthAmerica",
		Afternoon: string(prayer.ShadowStandard),
		Geolocation: GeolocationConfig{
			Enabled:        true,
			Endpoint:       core.DefaultGeoEndpoint,
			TimeoutSeconds: 10,
		},
		RefreshCron: "0 * * * *",
		Adjustments: map[string]int{},
	}
}

// Normalize fills in missing/zero values so partially-filled configs from
// older versions still behave correctly.
func (c *Config) Normalize() {
	if c.Method == "" {
		c.Method = "NorthAmerica"
	}
	switch prayer.Convention(c.Afternoon) {
	case prayer.ShadowStandard, prayer.ShadowHanafi:
	default:
		c.Afternoon = string(prayer.ShadowStandard)
	}
	if c.Geolocation.Endpoint == "" {
		c.Geolocation.Endpoint = core.DefaultGeoEndpoint
	}
	if c.Geolocation.TimeoutSeconds <= 0 {
		c.Geolocation.TimeoutSeconds = 10
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 * * * *"
	}
	if c.Adjustments == nil {
		c.Adjustments = map[string]int{}
	}
}

// Settings converts the config into calculation settings.
func (c *Config) Settings() (prayer.Settings, error) {
	method, err := prayer.MethodByName(c.Method)
	if err != nil {
		return prayer.Settings{}, err
	}
	adjustments := make(map[prayer.Event]int, len(c.Adjustments))
	for name, minutes := range c.Adjustments {
		adjustments[prayer.Event(name)] = minutes
	}
	return prayer.Settings{
		Method:      method,
		Afternoon:   prayer.Convention(c.Afternoon),
		Adjustments: adjustments,
	}, nil
}

// Load loads configuration from the given YAML path. A missing file is a
// first run: a default config is written there and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = core.DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".salat-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
