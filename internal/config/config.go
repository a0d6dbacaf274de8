// Package config loads the chunkseq CLI configuration from YAML.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ChunkSize int    `yaml:"chunk-size"`
	Separator string `yaml:"separator"` // joins the elements of one chunk on output
	Parallel  bool   `yaml:"parallel"`
	Workers   int    `yaml:"workers"`   // 0 means GOMAXPROCS
	MaxDepth  int    `yaml:"max-depth"` // -1 means derived from Workers
	Log       struct {
		Format string `yaml:"format"` // text or json
		Level  string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		ChunkSize: 100,
		Separator: ",",
		MaxDepth:  -1,
	}
	cfg.Log.Format = "text"
	cfg.Log.Level = "info"
	return cfg
}

// Read loads path on top of the defaults and validates the result.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ChunkSize < 1 {
		return errors.Errorf("chunk-size must be at least 1, got %d", c.ChunkSize)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
