// Package config holds the user-tunable settings behind the shell's set
// command. Settings are loaded once at startup from a YAML file in the user
// config directory and written back when changed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/gopod"
	configFileName = "config.yaml"
)

// Indirection for tests.
var osUserHomeDir = os.UserHomeDir

var getUserConfigPath = func() (string, error) {
	home, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, userConfigDir, configFileName), nil
}

// Settings are the user-visible configuration knobs.
type Settings struct {
	// DownloadDir is where episode files are stored.
	DownloadDir string `yaml:"downloadDir,omitempty"`
	// UpdateLimit caps how many episodes a feed update marks new per
	// subscription; 0 means no limit.
	UpdateLimit int `yaml:"updateLimit,omitempty"`
	// Color enables ANSI colors in shell output.
	Color bool `yaml:"color"`
}

// Default returns the built-in settings.
func Default() *Settings {
	downloadDir := "Podcasts"
	if home, err := osUserHomeDir(); err == nil {
		downloadDir = filepath.Join(home, "Podcasts")
	}
	return &Settings{
		DownloadDir: downloadDir,
		UpdateLimit: 0,
		Color:       true,
	}
}

// Load reads the user settings file, overlaying it onto the defaults.
// A missing file is not an error; the defaults are returned.
func Load() (*Settings, error) {
	settings := Default()

	path, err := getUserConfigPath()
	if err != nil {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return settings, nil
}

// Save writes the settings back to the user settings file, creating the
// config directory if needed.
func Save(s *Settings) error {
	path, err := getUserConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Set changes one settings key from its string representation.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "downloadDir":
		s.DownloadDir = value
	case "updateLimit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("updateLimit must be a non-negative number")
		}
		s.UpdateLimit = n
	case "color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("color must be true or false")
		}
		s.Color = b
	default:
		return fmt.Errorf("unknown settings key %q (known: color, downloadDir, updateLimit)", key)
	}
	return nil
}

// Items returns the settings as key/value pairs in display order.
func (s *Settings) Items() [][2]string {
	return [][2]string{
		{"color", strconv.FormatBool(s.Color)},
		{"downloadDir", s.DownloadDir},
		{"updateLimit", strconv.Itoa(s.UpdateLimit)},
	}
}
