// ABOUTME: Settings loading with global + project YAML config merge
// ABOUTME: Parsed with gopkg.in/yaml.v3; durations accept Go duration strings

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the merged configuration.
type Settings struct {
	LogLevel   string `yaml:"log_level,omitempty"`
	LogFile    string `yaml:"log_file,omitempty"`
	SyncOutput *bool  `yaml:"sync_output,omitempty"`
	Demo       Demo   `yaml:"demo,omitempty"`
}

// Demo configures the demo command's progress session.
type Demo struct {
	Title    string        `yaml:"title,omitempty"`
	Frames   int           `yaml:"frames,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// Defaults returns the settings used when no file sets a value.
func Defaults() *Settings {
	return &Settings{
		LogLevel: "info",
		Demo: Demo{
			Title:    "liveblock",
			Frames:   20,
			Interval: 100 * time.Millisecond,
		},
	}
}

// Load reads and merges global and project-local settings on top of
// Defaults. Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(merge(Defaults(), global), project)
	ResolveEnvVars(merged)
	return merged, nil
}

// LoadFile reads a single settings file on top of Defaults.
func LoadFile(path string) (*Settings, error) {
	s, err := loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	merged := merge(Defaults(), s)
	ResolveEnvVars(merged)
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays non-zero values of override onto base.
func merge(base, override *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.LogFile != "" {
		result.LogFile = override.LogFile
	}
	if override.SyncOutput != nil {
		v := *override.SyncOutput
		result.SyncOutput = &v
	}
	if override.Demo.Title != "" {
		result.Demo.Title = override.Demo.Title
	}
	if override.Demo.Frames != 0 {
		result.Demo.Frames = override.Demo.Frames
	}
	if override.Demo.Interval != 0 {
		result.Demo.Interval = override.Demo.Interval
	}

	return &result
}

// SyncOutputEnabled reports the sync_output setting, false when unset.
func (s *Settings) SyncOutputEnabled() bool {
	return s.SyncOutput != nil && *s.SyncOutput
}
