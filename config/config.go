// Package config reads and writes the rest timer's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Alert kinds understood by the alert package.
const (
	AlertKindBell    = "bell"
	AlertKindSound   = "sound"
	AlertKindDesktop = "desktop"
	AlertKindNone    = "none"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Timer    TimerConfig    `yaml:"timer"`
	Alert    AlertConfig    `yaml:"alert"`
	Display  DisplayConfig  `yaml:"display"`
	Reminder ReminderConfig `yaml:"reminder"`
	Log      LogConfig      `yaml:"log"`
}

// TimerConfig controls the countdown.
type TimerConfig struct {
	DefaultSeconds int           `yaml:"default_seconds"`
	Period         time.Duration `yaml:"period"`
}

// AlertConfig selects what happens when a countdown reaches zero.
type AlertConfig struct {
	Kind      string  `yaml:"kind"` // "bell" | "sound" | "desktop" | "none"
	SoundPath string  `yaml:"sound_path"`
	Volume    float64 `yaml:"volume"` // beep volume exponent, 0 = unchanged
	Title     string  `yaml:"title"`
	Message   string  `yaml:"message"`
}

// DisplayConfig controls timestamp formatting.
type DisplayConfig struct {
	Timezone string `yaml:"timezone"`
}

// ReminderConfig holds defaults for the remind command.
type ReminderConfig struct {
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
	Seconds  int    `yaml:"seconds"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "terminal" | "json"
	Output string `yaml:"output"` // empty for stderr
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultSeconds: 10,
			Period:         time.Second,
		},
		Alert: AlertConfig{
			Kind:    AlertKindBell,
			Title:   "Rest is over",
			Message: "Time for the next set",
		},
		Display: DisplayConfig{
			Timezone: "Asia/Tokyo",
		},
		Reminder: ReminderConfig{
			Name:     "rest",
			Timezone: "Asia/Tokyo",
			Seconds:  60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "terminal",
		},
	}
}

// DefaultPath returns ~/.resttimer/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(homeDir, ".resttimer", "config.yaml"), nil
}

// Load reads the file at path on top of DefaultConfig.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Timer.DefaultSeconds <= 0 {
		return fmt.Errorf("%w: timer.default_seconds must be positive, got %d", ErrInvalidConfig, c.Timer.DefaultSeconds)
	}
	if c.Timer.Period <= 0 {
		return fmt.Errorf("%w: timer.period must be positive, got %s", ErrInvalidConfig, c.Timer.Period)
	}

	switch c.Alert.Kind {
	case AlertKindBell, AlertKindDesktop, AlertKindNone:
	case AlertKindSound:
		if c.Alert.SoundPath == "" {
			return fmt.Errorf("%w: alert.sound_path is required for kind %q", ErrInvalidConfig, AlertKindSound)
		}
	default:
		return fmt.Errorf("%w: unknown alert.kind %q", ErrInvalidConfig, c.Alert.Kind)
	}

	if c.Reminder.Seconds < 0 {
		return fmt.Errorf("%w: reminder.seconds must not be negative, got %d", ErrInvalidConfig, c.Reminder.Seconds)
	}

	switch c.Log.Format {
	case "terminal", "json":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}
