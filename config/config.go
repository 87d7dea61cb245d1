package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrInvalid = errors.New("invalid config")

// PlayerConfig defines one player and the generator parameters it starts with
type PlayerConfig struct {
	Name       string             `json:"name"`
	Variant    string             `json:"variant"`
	Channel    uint8              `json:"channel"`
	Seed       uint64             `json:"seed,omitempty"`
	Muted      bool               `json:"muted,omitempty"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
}

// OutputConfig defines the MIDI output
type OutputConfig struct {
	PortName string `json:"portName,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Tempo    int            `json:"tempo"`
	Output   OutputConfig   `json:"output,omitempty"`
	Players  []PlayerConfig `json:"players"`
	Debug    bool           `json:"debug,omitempty"`
	OTelLogs bool           `json:"otelLogs,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo: 120,
		Players: []PlayerConfig{
			{
				Name:    "lead",
				Variant: "melody",
				Channel: 1,
				Parameters: map[string]float64{
					"pitch.base":  67,
					"pitch.min":   55,
					"pitch.max":   84,
					"rhythm.base": 0.5,
					"length.base": 8,
				},
			},
			{
				Name:    "pad",
				Variant: "drone",
				Channel: 2,
				Parameters: map[string]float64{
					"pitch.base":    48,
					"velocity.base": 60,
				},
			},
			{
				Name:    "kick",
				Variant: "pulse",
				Channel: 10,
				Parameters: map[string]float64{
					"rhythm.base": 1,
					"rhythm.step": 0,
				},
			},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "music-loom"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found,
// then applies environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return LoadFile("")
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path ("" = defaults only)
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg = &Config{}
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
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

// Validate checks tempo, channels and player names
func (c *Config) Validate() error {
	if c.Tempo < 20 || c.Tempo > 300 {
		return fmt.Errorf("%w: tempo %d not in 20-300", ErrInvalid, c.Tempo)
	}
	seen := make(map[string]bool, len(c.Players))
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalid, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalid, p.Name)
		}
		seen[p.Name] = true
		if p.Channel < 1 || p.Channel > 16 {
			return fmt.Errorf("%w: player %q channel %d not in 1-16", ErrInvalid, p.Name, p.Channel)
		}
	}
	return nil
}

// FindPlayer finds a player config by name
func (c *Config) FindPlayer(name string) *PlayerConfig {
	for i := range c.Players {
		if c.Players[i].Name == name {
			return &c.Players[i]
		}
	}
	return nil
}
