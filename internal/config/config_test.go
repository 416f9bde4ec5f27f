package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digitalclock", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{
		LogLevel: " DEBUG ",
		Calendars: []CalendarConfig{
			{URL: "https://example.com/a.ics"},
			{Type: "VDIR", Path: "/tmp/cal"},
		},
		Battery: BatteryConfig{I2CBus: "/dev/i2c-1"},
	}
	cfg.Normalize()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultHolidayMarker, cfg.HolidayMarker)
	assert.Equal(t, DefaultRefresh, cfg.Refresh)
	assert.Equal(t, DefaultBootInterval, cfg.Bootstrap.Interval)
	assert.Equal(t, DefaultBootAttempts, cfg.Bootstrap.MaxAttempts)
	assert.EqualValues(t, DefaultGaugeAddress, cfg.Battery.I2CAddress)

	assert.Equal(t, KindICS, cfg.Calendars[0].Type)
	assert.Equal(t, "ics-1", cfg.Calendars[0].ID)
	assert.Equal(t, KindVdir, cfg.Calendars[1].Type)
	assert.Equal(t, "vdir-2", cfg.Calendars[1].ID)
	assert.NoError(t, cfg.Validate())
}

func TestLoadParsesCalendars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log_level: debug
timezone: Europe/Prague
holiday_marker: Svátky
weekend: [fri, sat]
refresh: "0 * * * *"
calendars:
  - id: holidays
    name: Svátky ČR
    type: ics
    url: https://example.com/cz.ics
  - id: work
    type: google
    calendar_id: primary
    token_path: /home/me/.config/digitalclock/token.json
bootstrap:
  interval: 500ms
  max_attempts: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Svátky", cfg.HolidayMarker)
	assert.Equal(t, []string{"fri", "sat"}, cfg.Weekend)
	assert.Equal(t, "0 * * * *", cfg.Refresh)
	assert.Equal(t, 500*time.Millisecond, cfg.Bootstrap.Interval)
	assert.Equal(t, 10, cfg.Bootstrap.MaxAttempts)
	require.Len(t, cfg.Calendars, 2)
	assert.Equal(t, KindGoogle, cfg.Calendars[1].Type)
	assert.Equal(t, "Europe/Prague", cfg.Location().String())
}

func TestValidateReportsProblems(t *testing.T) {
	cfg := &Config{
		Timezone: "Mars/Olympus",
		Calendars: []CalendarConfig{
			{ID: "a", Type: KindICS},
			{ID: "a", Type: KindVdir},
			{ID: "b", Type: "caldav"},
		},
	}
	cfg.Normalize()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
	assert.Contains(t, err.Error(), "ics needs url")
	assert.Contains(t, err.Error(), "duplicate id")
	assert.Contains(t, err.Error(), "unknown type")
	assert.Equal(t, time.Local, cfg.Location())
}
