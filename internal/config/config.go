// Package config holds the application configuration file: calendar
// sources, refresh schedule and runtime tuning.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"digitalclock/internal/storage"
)

const (
	configFileName = "config.yaml"

	DefaultHolidayMarker = "Holidays"
	DefaultRefresh       = "*/15 * * * *"
	DefaultLogLevel      = "info"
	DefaultBootInterval  = time.Second
	DefaultBootAttempts  = 30
	DefaultGaugeAddress  = 0x36
)

// Calendar source kinds.
const (
	KindICS    = "ics"
	KindVdir   = "vdir"
	KindGoogle = "google"
)

// CalendarConfig describes one calendar source.
type CalendarConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`

	// URL is the ICS subscription endpoint.
	URL string `yaml:"url,omitempty"`
	// Path is the vdir collection directory.
	Path string `yaml:"path,omitempty"`

	CalendarID   string `yaml:"calendar_id,omitempty"`
	TokenPath    string `yaml:"token_path,omitempty"`
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
}

// BootstrapConfig tunes the overlay window search.
type BootstrapConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// BatteryConfig selects an I2C fuel gauge instead of the OS battery API.
type BatteryConfig struct {
	I2CBus     string `yaml:"i2c_bus,omitempty"`
	I2CAddress uint16 `yaml:"i2c_address,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// Timezone is an IANA zone name; empty means the system zone.
	Timezone string `yaml:"timezone,omitempty"`
	// HolidayMarker is a case-sensitive substring of holiday calendar names.
	HolidayMarker string `yaml:"holiday_marker"`
	// Weekend lists weekday names; empty means detect from the locale.
	Weekend []string `yaml:"weekend,omitempty"`
	// Refresh is the cron schedule for re-reading remote calendars.
	Refresh   string           `yaml:"refresh"`
	CacheDir  string           `yaml:"cache_dir,omitempty"`
	Calendars []CalendarConfig `yaml:"calendars"`
	Bootstrap BootstrapConfig  `yaml:"bootstrap"`
	Battery   BatteryConfig    `yaml:"battery,omitempty"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero values with defaults.
func (cfg *Config) Normalize() {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.HolidayMarker == "" {
		cfg.HolidayMarker = DefaultHolidayMarker
	}
	if strings.TrimSpace(cfg.Refresh) == "" {
		cfg.Refresh = DefaultRefresh
	}
	if cfg.Calendars == nil {
		cfg.Calendars = []CalendarConfig{}
	}
	for index := range cfg.Calendars {
		calendar := &cfg.Calendars[index]
		calendar.Type = strings.ToLower(strings.TrimSpace(calendar.Type))
		if calendar.Type == "" {
			calendar.Type = KindICS
		}
		if calendar.ID == "" {
			calendar.ID = fmt.Sprintf("%s-%d", calendar.Type, index+1)
		}
	}
	if cfg.Bootstrap.Interval <= 0 {
		cfg.Bootstrap.Interval = DefaultBootInterval
	}
	if cfg.Bootstrap.MaxAttempts <= 0 {
		cfg.Bootstrap.MaxAttempts = DefaultBootAttempts
	}
	if cfg.Battery.I2CBus != "" && cfg.Battery.I2CAddress == 0 {
		cfg.Battery.I2CAddress = DefaultGaugeAddress
	}
}

// Validate reports configuration errors that Normalize cannot repair.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("timezone %q: %w", cfg.Timezone, err))
		}
	}
	seen := map[string]bool{}
	for _, calendar := range cfg.Calendars {
		if seen[calendar.ID] {
			errs = append(errs, fmt.Errorf("calendar %s: duplicate id", calendar.ID))
		}
		seen[calendar.ID] = true
		switch calendar.Type {
		case KindICS:
			if calendar.URL == "" {
				errs = append(errs, fmt.Errorf("calendar %s: ics needs url", calendar.ID))
			}
		case KindVdir:
			if calendar.Path == "" {
				errs = append(errs, fmt.Errorf("calendar %s: vdir needs path", calendar.ID))
			}
		case KindGoogle:
		default:
			errs = append(errs, fmt.Errorf("calendar %s: unknown type %q", calendar.ID, calendar.Type))
		}
	}
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to the system zone.
func (cfg *Config) Location() *time.Location {
	if cfg.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultPath returns config.yaml under the user config dir of appName.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// Load reads the configuration at path. A missing file is created with
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
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
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	return storage.WriteFileAtomic(path, data, 0o600)
}
