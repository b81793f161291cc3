package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// MIDIConfig defines the optional MIDI echo output.
type MIDIConfig struct {
	Enabled  bool   `json:"enabled"`
	PortName string `json:"portName,omitempty"`
	Channel  uint8  `json:"channel,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	SoundsDir     string     `json:"soundsDir,omitempty"`
	RecordingsDir string     `json:"recordingsDir,omitempty"`
	MIDI          MIDIConfig `json:"midi,omitempty"`
	Debug         bool       `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SoundsDir:     "sounds",
		RecordingsDir: "recordings",
		MIDI: MIDIConfig{
			Enabled: false,
			Channel: 1,
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sargam"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
