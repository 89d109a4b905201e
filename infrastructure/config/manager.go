package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"aac2alac/domain/conversion"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigManager provides get/set operations on individual config keys
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Setting is one key of the config file with its current value
type Setting struct {
	Key         string
	Value       string
	Description string
}

type settingDef struct {
	key         string
	description string
	get         func(*Config) string
	set         func(*Config, string) error
}

var settingDefs = []settingDef{
	{
		key:         "tools.ffmpeg",
		description: "ffmpeg executable",
		get:         func(c *Config) string { return c.Tools.FFmpeg },
		set:         func(c *Config, v string) error { return setRequired(&c.Tools.FFmpeg, v) },
	},
	{
		key:         "tools.ffprobe",
		description: "ffprobe executable",
		get:         func(c *Config) string { return c.Tools.FFprobe },
		set:         func(c *Config, v string) error { return setRequired(&c.Tools.FFprobe, v) },
	},
	{
		key:         "output.directory",
		description: "directory for converted files (empty: next to source)",
		get:         func(c *Config) string { return c.Output.Directory },
		set: func(c *Config, v string) error {
			c.Output.Directory = strings.TrimSpace(v)
			return nil
		},
	},
	{
		key:         "output.suffix",
		description: "appended to the source name",
		get:         func(c *Config) string { return c.Output.Suffix },
		set: func(c *Config, v string) error {
			if strings.ContainsAny(v, `/\`) {
				return fmt.Errorf("%w: suffix must not contain a path separator", ErrInvalidValue)
			}
			c.Output.Suffix = v
			return nil
		},
	},
	{
		key:         "output.streams",
		description: "keep or audio-only",
		get:         func(c *Config) string { return c.Output.Streams },
		set: func(c *Config, v string) error {
			policy, err := conversion.ParseStreamPolicy(v)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			c.Output.Streams = string(policy)
			return nil
		},
	},
	{
		key:         "output.overwrite",
		description: "replace an existing output file",
		get:         func(c *Config) string { return strconv.FormatBool(c.Output.Overwrite) },
		set:         func(c *Config, v string) error { return setBool(&c.Output.Overwrite, v) },
	},
	{
		key:         "conversion.require_aac",
		description: "refuse sources whose audio is not AAC",
		get:         func(c *Config) string { return strconv.FormatBool(c.Conversion.RequireAAC) },
		set:         func(c *Config, v string) error { return setBool(&c.Conversion.RequireAAC, v) },
	},
}

// List returns every setting in file order
func (m *ConfigManager) List() []Setting {
	result := make([]Setting, 0, len(settingDefs))
	for _, def := range settingDefs {
		result = append(result, Setting{
			Key:         def.key,
			Value:       def.get(m.config),
			Description: def.description,
		})
	}
	return result
}

// Get returns the current value of key
func (m *ConfigManager) Get(key string) (string, error) {
	def, err := lookupSetting(key)
	if err != nil {
		return "", err
	}
	return def.get(m.config), nil
}

// Set updates key and saves the config file
func (m *ConfigManager) Set(key, value string) error {
	def, err := lookupSetting(key)
	if err != nil {
		return err
	}
	if err := def.set(m.config, value); err != nil {
		return err
	}
	return Save(m.config, m.configPath)
}

// Keys returns all known keys
func Keys() []string {
	keys := make([]string, 0, len(settingDefs))
	for _, def := range settingDefs {
		keys = append(keys, def.key)
	}
	return keys
}

func lookupSetting(key string) (settingDef, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, def := range settingDefs {
		if def.key == key {
			return def, nil
		}
	}
	return settingDef{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

func setRequired(dst *string, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return fmt.Errorf("%w: value is required", ErrInvalidValue)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
	}
	*dst = b
	return nil
}
