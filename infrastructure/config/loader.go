package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aac2alac/domain/conversion"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user config directory
const AppName = "aac2alac"

// Config represents the complete application configuration
type Config struct {
	Tools      ToolsConfig      `yaml:"tools"`
	Output     OutputConfig     `yaml:"output"`
	Conversion ConversionConfig `yaml:"conversion"`
}

// ToolsConfig names the external binaries
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// OutputConfig controls where and how results are written
type OutputConfig struct {
	Directory string `yaml:"directory"` // Empty means next to the source
	Suffix    string `yaml:"suffix"`
	Streams   string `yaml:"streams"`
	Overwrite bool   `yaml:"overwrite"`
}

// ConversionConfig contains source validation settings
type ConversionConfig struct {
	RequireAAC bool `yaml:"require_aac"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Output: OutputConfig{
			Suffix:    conversion.DefaultSuffix,
			Streams:   string(conversion.DefaultStreamPolicy),
			Overwrite: true,
		},
		Conversion: ConversionConfig{
			RequireAAC: true,
		},
	}
}

// DefaultPath returns <user config dir>/aac2alac/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

// Load reads and parses the configuration from the specified YAML file.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist. found reports whether a file was read.
func LoadOrDefault(path string) (cfg *Config, found bool, err error) {
	cfg, err = Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	return nil, false, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be fixed up silently
func (c *Config) Validate() error {
	if _, err := conversion.ParseStreamPolicy(c.Output.Streams); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.Suffix, `/\`) {
		return fmt.Errorf("output suffix %q must not contain a path separator", c.Output.Suffix)
	}
	return nil
}

// StreamPolicy returns the parsed stream policy, falling back to the default
func (c *Config) StreamPolicy() conversion.StreamPolicy {
	policy, err := conversion.ParseStreamPolicy(c.Output.Streams)
	if err != nil {
		return conversion.DefaultStreamPolicy
	}
	return policy
}

func (c *Config) normalize() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = "ffmpeg"
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = "ffprobe"
	}
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
	c.Output.Streams = strings.ToLower(strings.TrimSpace(c.Output.Streams))
}
