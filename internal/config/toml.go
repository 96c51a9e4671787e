// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/pepperoni/internal/game"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play         PlayConfig                  `toml:"play"`
	Difficulties map[string]DifficultyConfig `toml:"difficulty"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Difficulty *string `toml:"difficulty"`
	Mouse      *bool   `toml:"mouse"`
	Record     *bool   `toml:"record"`
}

// DifficultyConfig overrides or adds a difficulty profile.
type DifficultyConfig struct {
	Quota     *int     `toml:"quota"`
	Duration  *int     `toml:"duration"`
	Tolerance *float64 `toml:"tolerance"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Profiles builds the difficulty table from the built-in profiles and the config overrides.
// A new difficulty must set all three values.
func (c FileConfig) Profiles() (game.ProfileTable, error) {
	profiles := game.DefaultProfiles()
	index := make(map[string]int, len(profiles))
	for i, p := range profiles {
		index[p.Name] = i
	}
	overrides := make(map[string]DifficultyConfig, len(c.Difficulties))
	names := make([]string, 0, len(c.Difficulties))
	for raw, override := range c.Difficulties {
		name := strings.ToLower(strings.TrimSpace(raw))
		if _, dup := overrides[name]; !dup {
			names = append(names, name)
		}
		overrides[name] = override
	}
	sort.Strings(names)
	for _, name := range names {
		override := overrides[name]
		i, ok := index[name]
		if !ok {
			if override.Quota == nil || override.Duration == nil || override.Tolerance == nil {
				return game.ProfileTable{}, fmt.Errorf("difficulty %q: quota, duration and tolerance are required", name)
			}
			profiles = append(profiles, game.Profile{Name: name})
			i = len(profiles) - 1
			index[name] = i
		}
		if override.Quota != nil {
			profiles[i].Quota = *override.Quota
		}
		if override.Duration != nil {
			profiles[i].Duration = *override.Duration
		}
		if override.Tolerance != nil {
			profiles[i].Tolerance = *override.Tolerance
		}
	}
	table, err := game.NewProfileTable(profiles)
	if err != nil {
		return game.ProfileTable{}, fmt.Errorf("invalid difficulty config: %w", err)
	}
	return table, nil
}
