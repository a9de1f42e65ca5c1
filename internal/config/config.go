// Package config loads the decoder-defaults manifest cmd/x86ref reads at
// startup. The teacher carries no config file of its own (flags only);
// this is the one ambient config surface this module adds.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/x86ref/x86ref/pkg/refmodel"
)

// Config is the decoder-defaults manifest: the operating mode to decode
// in when none is given on the command line, which instruction
// extensions to accept, and where to find the reference XML.
type Config struct {
	Mode              string   `yaml:"mode"`
	EnabledExtensions []string `yaml:"enabled_extensions"`
	ReferencePath     string   `yaml:"reference_path"`
}

// Default returns the manifest's baked-in fallback: real/protected/64-bit
// mode (R), every extension enabled, no reference path (the caller must
// supply one).
func Default() *Config {
	return &Config{
		Mode:              "R",
		EnabledExtensions: nil,
		ReferencePath:     "",
	}
}

// Load reads and parses a YAML manifest from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParsedMode resolves the manifest's Mode string to a refmodel.Mode.
func (c *Config) ParsedMode() (refmodel.Mode, error) {
	return refmodel.ParseMode(c.Mode)
}

// ExtensionSet resolves EnabledExtensions into a membership set, failing
// on any name the reference model doesn't recognize.
func (c *Config) ExtensionSet() (refmodel.Set[refmodel.Extension], error) {
	set := refmodel.NewSet[refmodel.Extension]()
	for _, name := range c.EnabledExtensions {
		ext, err := refmodel.ParseExtension(name)
		if err != nil {
			return nil, fmt.Errorf("config: enabled_extensions: %w", err)
		}
		set.Add(ext)
	}
	return set, nil
}
