package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

// Config holds persisted user preferences. Song content lives in its own
// files under the songs directory; this is only the knobs the UI restores
// on startup.
type Config struct {
	Tempo       int     `json:"tempo,omitempty"`
	Waveform    string  `json:"waveform,omitempty"`
	Columns     int     `json:"columns,omitempty"`
	StartOctave int     `json:"startOctave,omitempty"`
	Octaves     int     `json:"octaves,omitempty"`
	Volume      float64 `json:"volume,omitempty"`
	Palette     string  `json:"palette,omitempty"` // optional GPL palette path
	LastSong    string  `json:"lastSong,omitempty"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Tempo:       120,
		Waveform:    "sine",
		Columns:     16,
		StartOctave: 4,
		Octaves:     2,
		Volume:      0.5,
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("cannot resolve home directory"))
	}
	return filepath.Join(home, ".config", "web-song-maker"), nil
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// SongsDir returns the directory song files are saved to.
func SongsDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "songs"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fault.Wrap(err, fmsg.With("cannot read config file"))
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("cannot parse config file",
			"The config file is not valid JSON"))
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fault.Wrap(err, fmsg.With("cannot create config directory"))
	}

	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("cannot encode config"))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("cannot write config file"))
	}
	return nil
}
