package storage

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"digitalclock/internal/core/model"
	appLog "digitalclock/internal/log"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TextColor      string   `yaml:"text_color"`
	WeekendColor   string   `yaml:"weekend_color"`
	EventColor     string   `yaml:"event_color"`
	HolidayColor   string   `yaml:"holiday_color"`
	VerticalOffset *float64 `yaml:"vertical_offset"`
	APIKey         string   `yaml:"api_key,omitempty"`
}

// PreferenceStore loads and saves user preferences.
type PreferenceStore interface {
	Load() (model.Preferences, error)
	Save(prefs model.Preferences) error
}

// YAMLStore keeps preferences in a YAML file.
type YAMLStore struct {
	path string
}

// NewYAMLStore stores settings.yaml under the user config dir of appName.
func NewYAMLStore(appName string) (*YAMLStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewYAMLStoreAt(filepath.Join(configDir, appName, settingsFileName)), nil
}

// NewYAMLStoreAt stores preferences at path.
func NewYAMLStoreAt(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Path returns the settings file location.
func (store *YAMLStore) Path() string {
	return store.path
}

// Load reads preferences. A missing file yields defaults; unreadable
// fields keep their default value.
func (store *YAMLStore) Load() (model.Preferences, error) {
	prefs := model.DefaultPreferences()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return prefs, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&prefs, fileData)
	return prefs, nil
}

// Save writes preferences through a temp file and rename so a crash never
// leaves a truncated file behind.
func (store *YAMLStore) Save(prefs model.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	prefs.ClampOffset()
	offset := prefs.VerticalOffset
	fileData := yamlSettings{
		TextColor:      model.FormatHexColor(prefs.TextColor),
		WeekendColor:   model.FormatHexColor(prefs.WeekendColor),
		EventColor:     model.FormatHexColor(prefs.EventColor),
		HolidayColor:   model.FormatHexColor(prefs.HolidayColor),
		VerticalOffset: &offset,
		APIKey:         prefs.APIKey,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	return WriteFileAtomic(store.path, serialized, 0o600)
}

// WriteFileAtomic replaces path with data via a temp file in the same
// directory.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func applyYamlSettings(prefs *model.Preferences, fileData yamlSettings) {
	applyColor(&prefs.TextColor, "text_color", fileData.TextColor)
	applyColor(&prefs.WeekendColor, "weekend_color", fileData.WeekendColor)
	applyColor(&prefs.EventColor, "event_color", fileData.EventColor)
	applyColor(&prefs.HolidayColor, "holiday_color", fileData.HolidayColor)

	if fileData.VerticalOffset != nil {
		prefs.VerticalOffset = *fileData.VerticalOffset
		prefs.ClampOffset()
	}
	prefs.APIKey = fileData.APIKey
}

func applyColor(target *color.NRGBA, key, value string) {
	if value == "" {
		return
	}
	parsed, err := model.ParseHexColor(value)
	if err != nil {
		appLog.Error("ignoring invalid color", err, "key", key)
		return
	}
	*target = parsed
}
