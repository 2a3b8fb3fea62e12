package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults target the University Hills schedule page; the config file
// exists so the same binary can follow the page if the site moves it.
const (
	DefaultURL             = "https://denverymca.org/university-hills-y-fitness-schedule"
	DefaultTimezone        = "America/Denver"
	DefaultOutput          = "ymca_university_hills.ics"
	DefaultFacilityName    = "University Hills-Schlessman YMCA"
	DefaultFacilityAddress = "University Hills-Schlessman YMCA, Denver, CO"
	DefaultNavTimeoutSec   = 20
)

// Config is the top-level application configuration.
type Config struct {
	// URL is the schedule page to scrape.
	URL string `yaml:"url" json:"url"`

	// Timezone is the IANA zone the class times are published in
	// (e.g. "America/Denver").
	Timezone string `yaml:"timezone" json:"timezone"`

	// Output is the path of the ICS file, overwritten on each run.
	Output string `yaml:"output" json:"output"`

	// Headless controls whether the browser runs without a window.
	// Defaults to true; set false to watch the scrape.
	Headless *bool `yaml:"headless,omitempty" json:"headless,omitempty"`

	// FacilityName is the room/studio text used when a row has no
	// location cell of its own.
	FacilityName string `yaml:"facility_name" json:"facility_name"`

	// FacilityAddress is the LOCATION written on every calendar entry.
	FacilityAddress string `yaml:"facility_address" json:"facility_address"`

	// Refresh is a cron-style schedule string (e.g. "0 5 * * *"). If
	// empty, the tool scrapes once and exits.
	Refresh string `yaml:"refresh,omitempty" json:"refresh,omitempty"`

	// NavTimeoutSeconds bounds the waits for the widget root and the
	// day selector to appear.
	NavTimeoutSeconds int `yaml:"nav_timeout_seconds" json:"nav_timeout_seconds"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	headless := true
	return &Config{
		URL:               DefaultURL,
		Timezone:          DefaultTimezone,
		Output:            DefaultOutput,
		Headless:          &headless,
		FacilityName:      DefaultFacilityName,
		FacilityAddress:   DefaultFacilityAddress,
		NavTimeoutSeconds: DefaultNavTimeoutSec,
	}
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Headless == nil {
		headless := true
		c.Headless = &headless
	}
	if c.FacilityName == "" {
		c.FacilityName = DefaultFacilityName
	}
	if c.FacilityAddress == "" {
		c.FacilityAddress = DefaultFacilityAddress
	}
	if c.NavTimeoutSeconds <= 0 {
		c.NavTimeoutSeconds = DefaultNavTimeoutSec
	}
}

// HeadlessOn reports the effective headless flag.
func (c *Config) HeadlessOn() bool {
	return c.Headless == nil || *c.Headless
}

// NavTimeout returns NavTimeoutSeconds as a duration.
func (c *Config) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If path is empty, the built-in defaults are returned.
//   - If the file does not exist, a default config is written there
//     (parent directory created, 0600 perms) and returned.
//   - Otherwise the YAML is read, unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
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

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory if needed.
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

	tmp, err := os.CreateTemp(dir, ".ymcacal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
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
