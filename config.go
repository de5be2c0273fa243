package trellis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds constant construction values parsed from YAML, used
// with WithConfig and as per-mount sections for construction hooks.
type Config map[string]any

// LoadConfig parses a YAML document into a Config.
func LoadConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("trellis: parse config: %w", err)
	}
	return c, nil
}

// LoadConfigFile reads and parses a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trellis: read config: %w", err)
	}
	return LoadConfig(data)
}

// Section returns the nested mapping under key, or nil when the key is
// absent or not a mapping. Sections hold per-mount construction values
// in a single configuration file.
func (c Config) Section(key string) Config {
	switch v := c[key].(type) {
	case Config:
		return v
	case map[string]any:
		return Config(v)
	default:
		return nil
	}
}
